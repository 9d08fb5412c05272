package args

import (
	"strings"

	"github.com/viant/parsly"
)

// Values holds KEY:value pairs parsed from a step argument string
type Values map[string]string

// Lookup returns value for key or fallback when absent
func (v Values) Lookup(key, fallback string) string {
	if value, ok := v[key]; ok {
		return value
	}
	return fallback
}

// Parse parses comma separated KEY:value segments. Values are trimmed, the
// first occurrence of a key wins and segments without a key are skipped.
func Parse(input string) Values {
	ret := Values{}
	if input == "" {
		return ret
	}
	cursor := parsly.NewCursor("", []byte(input), 0)
	for cursor.Pos < cursor.InputSize {
		key := ""
		matched := cursor.MatchAfterOptional(whitespaceToken, keyToken)
		if matched.Code == keyToken.Code {
			key = matched.Text(cursor)
			if cursor.MatchOne(colonToken).Code != colonToken.Code {
				key = ""
			}
		}
		value := ""
		if matched = cursor.MatchOne(valueToken); matched.Code == valueToken.Code {
			value = strings.TrimSpace(matched.Text(cursor))
		}
		if _, ok := ret[key]; key != "" && !ok {
			ret[key] = value
		}
		if cursor.MatchOne(commaToken).Code != commaToken.Code {
			break
		}
	}
	return ret
}
