// Package dataset loads and holds the JSONL comparison-record files behind
// the showcase galleries. A record maps method ids to media references; the
// key order of that mapping is curated upstream and survives both load and
// rewrite.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Record is one comparison row: a clip identity, the prompt describing its
// expected audio, and one media reference per method.
type Record struct {
	SequenceID int               `json:"sequence_id"`
	VideoID    string            `json:"video_id"`
	Prompt     string            `json:"prompt"`
	Videos     map[string]string `json:"videos"`

	// methodOrder preserves the key order of the videos object as written.
	// Go maps lose it, and downstream rendering falls back to it when no
	// canonical order applies.
	methodOrder []string
}

// Methods returns the record's method ids in their original written order.
// Ids added to Videos after load (without SetVideo) sort to the end.
func (r *Record) Methods() []string {
	out := make([]string, 0, len(r.Videos))
	seen := make(map[string]struct{}, len(r.Videos))
	for _, m := range r.methodOrder {
		if _, ok := r.Videos[m]; !ok {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	extra := make([]string, 0)
	for m := range r.Videos {
		if _, ok := seen[m]; !ok {
			extra = append(extra, m)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// SetVideo sets or replaces a method's media reference, appending new method
// ids to the record's order.
func (r *Record) SetVideo(method, ref string) {
	if r.Videos == nil {
		r.Videos = make(map[string]string)
	}
	if _, ok := r.Videos[method]; !ok {
		r.methodOrder = append(r.methodOrder, method)
	}
	r.Videos[method] = ref
}

// UnmarshalJSON decodes a record and recovers the written key order of the
// videos object, which encoding/json's map decoding discards.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Record(p)
	r.methodOrder = nil

	var raw struct {
		Videos json.RawMessage `json:"videos"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Videos) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Videos))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		// "videos": null or a non-object; the plain decode already handled it.
		return nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("videos object: unexpected key token %v", keyTok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return err
		}
		r.methodOrder = append(r.methodOrder, key)
	}
	return nil
}

// MarshalJSON writes the record with its videos keys in order, so a
// load-rewrite cycle leaves the curated ordering intact.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"sequence_id":`)
	fmt.Fprintf(&buf, "%d", r.SequenceID)

	buf.WriteString(`,"video_id":`)
	if err := writeJSONString(&buf, r.VideoID); err != nil {
		return nil, err
	}

	buf.WriteString(`,"prompt":`)
	if err := writeJSONString(&buf, r.Prompt); err != nil {
		return nil, err
	}

	buf.WriteString(`,"videos":{`)
	for i, m := range r.Methods() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, m); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, r.Videos[m]); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline; drop it.
	buf.Truncate(buf.Len() - 1)
	return nil
}
