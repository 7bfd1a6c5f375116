package diagnosis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Condition is a candidate diagnosis and its accumulated score.
type Condition struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Conditions is an ordered condition list. It encodes as a JSON object whose
// keys keep the slice order.
type Conditions []Condition

// Get returns the score for name and whether it is present.
func (c Conditions) Get(name string) (int, bool) {
	for _, cond := range c {
		if cond.Name == name {
			return cond.Score, true
		}
	}
	return 0, false
}

// Max returns the highest score, or 0 when empty.
func (c Conditions) Max() int {
	top := 0
	for i, cond := range c {
		if i == 0 || cond.Score > top {
			top = cond.Score
		}
	}
	return top
}

func (c Conditions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cond := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cond.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", cond.Score)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Conditions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("diseases: expected object, got %v", tok)
	}

	out := Conditions{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("diseases: expected key, got %v", tok)
		}
		var score int
		if err := dec.Decode(&score); err != nil {
			return fmt.Errorf("diseases: score for %q: %w", name, err)
		}
		out = append(out, Condition{Name: name, Score: score})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

// scoreTable accumulates condition scores. Names are created on first
// reference at 0 and remember their insertion order, which decides ties when
// sorting.
type scoreTable struct {
	order  []string
	scores map[string]int
}

func newScoreTable() *scoreTable {
	return &scoreTable{scores: make(map[string]int)}
}

func (t *scoreTable) has(name string) bool {
	_, ok := t.scores[name]
	return ok
}

func (t *scoreTable) add(name string, delta int) {
	if !t.has(name) {
		t.order = append(t.order, name)
	}
	t.scores[name] += delta
}

func (t *scoreTable) set(name string, score int) {
	if !t.has(name) {
		t.order = append(t.order, name)
	}
	t.scores[name] = score
}

// seed inserts name at 0 unless it already exists.
func (t *scoreTable) seed(name string) {
	if !t.has(name) {
		t.set(name, 0)
	}
}

// raiseTo sets name to max(current, floor), creating it at floor if absent.
func (t *scoreTable) raiseTo(name string, floor int) {
	if cur, ok := t.scores[name]; ok && cur >= floor {
		return
	}
	t.set(name, floor)
}

func (t *scoreTable) empty() bool {
	return len(t.order) == 0
}

func (t *scoreTable) sum() int {
	total := 0
	for _, s := range t.scores {
		total += s
	}
	return total
}

func (t *scoreTable) clampMax(limit int) {
	for name, s := range t.scores {
		if s > limit {
			t.scores[name] = limit
		}
	}
}

func (t *scoreTable) reset() {
	t.order = nil
	t.scores = make(map[string]int)
}

// sorted returns the conditions by descending score; ties keep insertion order.
func (t *scoreTable) sorted() Conditions {
	out := make(Conditions, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, Condition{Name: name, Score: t.scores[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
