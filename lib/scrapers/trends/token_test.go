package trends

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const embedFixture = `<!doctype html>
<html>
<head><title>embed</title></head>
<body>
<script>
  window.widget = JSON.parse('{\x22type\x22:\x22fe_line_chart\x22,\x22token\x22:\x22APP6_UEAA\x22,\x22request\x22:{\x22time\x22:\x222024-01-01 2024-09-12\x22},\x22bullets\x22:[{\x22text\x22:\x22Café\x22}]}');
</script>
</body>
</html>`

func TestScriptLiteralExtractor(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		literal, err := scriptLiteralExtractor{}.Extract([]byte(embedFixture))
		require.NoError(t, err)

		token, err := parseWidgetToken(literal)
		require.NoError(t, err)
		require.Equal(t, "fe_line_chart", token.Type)
		require.Equal(t, "APP6_UEAA", token.Token)
		require.Equal(t, "2024-01-01 2024-09-12", token.Request["time"])
		require.Equal(t, []string{"Café"}, token.Bullets)
	})

	t.Run("bare fragment", func(t *testing.T) {
		fragment := `var w = JSON.parse('{\x22type\x22:\x22fe_geo_chart\x22,\x22token\x22:\x22tok\x22,\x22request\x22:{}}');`
		literal, err := scriptLiteralExtractor{}.Extract([]byte(fragment))
		require.NoError(t, err)

		token, err := parseWidgetToken(literal)
		require.NoError(t, err)
		require.Equal(t, "fe_geo_chart", token.Type)
	})

	t.Run("whitespace around the call", func(t *testing.T) {
		fragment := "JSON . parse ( '{\\x22type\\x22:\\x22fe_line_chart\\x22,\\x22token\\x22:\\x22t\\x22}' )"
		literal, err := scriptLiteralExtractor{}.Extract([]byte(fragment))
		require.NoError(t, err)
		require.Contains(t, literal, `"fe_line_chart"`)
	})

	t.Run("no literal", func(t *testing.T) {
		_, err := scriptLiteralExtractor{}.Extract([]byte("<html><body>nothing here</body></html>"))
		var formatErr *ResponseFormatError
		require.ErrorAs(t, err, &formatErr)
	})
}

func TestUnescapeScriptLiteral(t *testing.T) {
	cases := []struct {
		in     string
		expect string
	}{
		{in: `\x22quoted\x22`, expect: `"quoted"`},
		{in: `café`, expect: "café"},
		{in: `back\\slash and \'quote\'`, expect: `back\slash and 'quote'`},
		{in: `line\nbreak`, expect: "line\nbreak"},
		{in: "plain", expect: "plain"},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, unescapeScriptLiteral(test.in), test.in)
	}
}

func TestParseWidgetToken(t *testing.T) {
	t.Run("over quota flag", func(t *testing.T) {
		token, err := parseWidgetToken(`{
			"type": "fe_related_searches",
			"token": "tok",
			"request": {},
			"userConfig": {"userType": "USER_TYPE_EMBED_OVER_QUOTA"}
		}`)
		require.NoError(t, err)
		require.True(t, token.overQuota)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := parseWidgetToken(`{"type": "fe_line_chart"}`)
		var formatErr *ResponseFormatError
		require.ErrorAs(t, err, &formatErr)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := parseWidgetToken("garbage")
		var formatErr *ResponseFormatError
		require.ErrorAs(t, err, &formatErr)
	})
}

func TestParseProtectedJSON(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var out map[string]int
		err := parseProtectedJSON(
			[]byte(")]}'\n{\"a\": 1}"),
			"application/json; charset=UTF-8",
			&out,
		)
		require.NoError(t, err)
		require.Equal(t, map[string]int{"a": 1}, out)
	})

	t.Run("disallowed content type", func(t *testing.T) {
		var out any
		err := parseProtectedJSON([]byte(")]}'\n{}"), "text/html", &out)
		var formatErr *ResponseFormatError
		require.ErrorAs(t, err, &formatErr)
	})

	t.Run("missing preamble", func(t *testing.T) {
		var out any
		err := parseProtectedJSON([]byte(`{"a": 1}`), "application/json", &out)
		var formatErr *ResponseFormatError
		require.ErrorAs(t, err, &formatErr)
	})

	t.Run("invalid payload", func(t *testing.T) {
		var out any
		err := parseProtectedJSON([]byte(")]}'\nnot json"), "application/json", &out)
		var formatErr *ResponseFormatError
		require.ErrorAs(t, err, &formatErr)
	})
}
