package lookup

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ppiankov/jimaku/internal/model"
)

// bccwjRow is one row of the frequency table; id is the frequency rank
type bccwjRow struct {
	ID      int    `json:"id"`
	Word    string `json:"word"`
	Reading string `json:"reading"`
}

// jlptRow is one row of the JLPT table
type jlptRow struct {
	Word string  `json:"word"`
	Tags jlptTag `json:"tags"`
}

// jlptTag accepts the level as a number (5), a string ("5") or a tag
// ("N5", "jlpt-n5"). Anything unrecognised decodes to JLPTNone.
type jlptTag model.JLPTLevel

func (t *jlptTag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = jlptTag(model.JLPTNone)
		return nil
	}

	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	*t = jlptTag(parseLevel(s))
	return nil
}

// parseLevel takes the last digit in s as the level
func parseLevel(s string) model.JLPTLevel {
	s = strings.TrimSpace(s)
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] >= '0' && s[i] <= '9' {
			level := model.JLPTLevel(s[i] - '0')
			if level.Valid() {
				return level
			}
			return model.JLPTNone
		}
	}
	return model.JLPTNone
}

// inFilter renders a PostgREST in() filter. Values are always double
// quoted so commas and parentheses inside words survive.
func inFilter(words []string) string {
	var b strings.Builder
	b.WriteString("in.(")
	for i, w := range words {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(w))
		b.WriteByte('"')
	}
	b.WriteByte(')')
	return b.String()
}
