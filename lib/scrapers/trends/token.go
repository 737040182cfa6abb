package trends

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WidgetToken is the credential the explore phase hands out: an opaque
// token plus the request parameters to replay against the widget's fetch
// endpoint. Consumed once, never persisted.
type WidgetToken struct {
	Type    string
	Token   string
	Request map[string]any
	// per-series display metadata, present on multi-range widgets
	Bullets []string

	overQuota bool
}

// TokenExtractor pulls the raw widget JSON out of a phase-1 response body.
// The default implementation scrapes an embedded JS literal; swap it if
// the upstream markup changes shape.
type TokenExtractor interface {
	Extract(body []byte) (string, error)
}

// the embed page hands its config to JSON.parse as a single-quoted
// literal inside a script tag
var parseLiteralRe = regexp.MustCompile(`JSON\s*\.\s*parse\s*\(\s*'((?:[^'\\]|\\.)*)'\s*\)`)

type scriptLiteralExtractor struct{}

func (scriptLiteralExtractor) Extract(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err == nil {
		for _, script := range doc.Find("script").Nodes {
			if script.FirstChild == nil {
				continue
			}
			groups := parseLiteralRe.FindStringSubmatch(script.FirstChild.Data)
			if len(groups) == 2 {
				return unescapeScriptLiteral(groups[1]), nil
			}
		}
	}

	// some responses are a bare JS fragment rather than a full document
	groups := parseLiteralRe.FindSubmatch(body)
	if len(groups) == 2 {
		return unescapeScriptLiteral(string(groups[1])), nil
	}
	return "", &ResponseFormatError{Reason: "no embedded widget literal found"}
}

// unescapeScriptLiteral decodes \xNN byte escapes and \uNNNN code point
// escapes, then strips the remaining backslash escapes.
func unescapeScriptLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'x':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 2
					continue
				}
			}
			b.WriteByte(s[i])
		case 'u':
			if i+4 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			b.WriteByte(s[i])
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

type widgetPayload struct {
	Type    string         `json:"type"`
	Token   string         `json:"token"`
	Request map[string]any `json:"request"`
	Bullets []struct {
		Text string `json:"text"`
	} `json:"bullets"`
	UserConfig struct {
		UserType string `json:"userType"`
	} `json:"userConfig"`
}

const overQuotaUserType = "USER_TYPE_EMBED_OVER_QUOTA"

func parseWidgetToken(literal string) (*WidgetToken, error) {
	var payload widgetPayload
	if err := json.Unmarshal([]byte(literal), &payload); err != nil {
		return nil, &ResponseFormatError{Reason: "widget literal is not valid JSON", Err: err}
	}
	if payload.Token == "" || payload.Type == "" {
		return nil, &ResponseFormatError{Reason: "widget literal carries no token"}
	}

	token := &WidgetToken{
		Type:      payload.Type,
		Token:     payload.Token,
		Request:   payload.Request,
		overQuota: payload.UserConfig.UserType == overQuotaUserType,
	}
	if token.Request == nil {
		token.Request = map[string]any{}
	}
	for _, bullet := range payload.Bullets {
		token.Bullets = append(token.Bullets, bullet.Text)
	}
	return token, nil
}

// content types the widget endpoints legitimately answer with
var allowedContentTypes = []string{
	"application/json",
	"application/javascript",
	"text/javascript",
}

// parseProtectedJSON decodes a "protected JSON" payload: a throwaway
// first line followed by the actual document.
func parseProtectedJSON(body []byte, contentType string, out any) error {
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	allowed := false
	for _, ct := range allowedContentTypes {
		if mediaType == ct {
			allowed = true
			break
		}
	}
	if !allowed {
		return &ResponseFormatError{
			Reason: fmt.Sprintf("unexpected content type %q", contentType),
		}
	}

	newline := bytes.IndexByte(body, '\n')
	if newline < 0 {
		return &ResponseFormatError{Reason: "missing protection preamble"}
	}
	if err := json.Unmarshal(body[newline+1:], out); err != nil {
		return &ResponseFormatError{Reason: "protected payload is not valid JSON", Err: err}
	}
	return nil
}
