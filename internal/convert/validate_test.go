package convert_test

import (
	"reflect"
	"strings"
	"testing"

	"chordserve/internal/convert"
)

func testPresets() *convert.PresetCatalog {
	return convert.NewPresetCatalog(map[string]string{
		"ukulele": "ukulele",
		"modern3": "modern3",
		"worship": "/etc/chordserve/worship.json",
	})
}

func testLimits() convert.Limits {
	return convert.Limits{MaxContentBytes: 1 << 20}
}

func mustParse(t *testing.T, body string) *convert.Request {
	t.Helper()
	req, err := convert.ParseRequest([]byte(body), testLimits(), testPresets())
	if err != nil {
		t.Fatalf("ParseRequest(%s): %v", body, err)
	}
	return req
}

func expectReason(t *testing.T, body string, fragment string) {
	t.Helper()
	_, err := convert.ParseRequest([]byte(body), testLimits(), testPresets())
	if err == nil {
		t.Fatalf("expected validation error for %s", body)
	}
	vErr, ok := err.(*convert.ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if !strings.Contains(vErr.Reason, fragment) {
		t.Fatalf("reason %q does not mention %q", vErr.Reason, fragment)
	}
}

func TestParseRequestDefaults(t *testing.T) {
	req := mustParse(t, `{"content":"{title: Amazing Grace}\n[C]Amazing grace"}`)
	if req.Format != convert.FormatPDF {
		t.Fatalf("expected default pdf format, got %q", req.Format)
	}
	if !req.Options.Diagrams {
		t.Fatal("diagrams should default to enabled")
	}
	if req.Options.Transpose != nil {
		t.Fatal("transpose should default to absent")
	}
	if len(req.Options.Configs) != 0 {
		t.Fatalf("unexpected configs: %v", req.Options.Configs)
	}
}

func TestParseRequestMalformedBody(t *testing.T) {
	expectReason(t, `{not json`, "JSON")
	expectReason(t, ``, "JSON")
	expectReason(t, `"just a string"`, "JSON")
}

func TestParseRequestContentRules(t *testing.T) {
	expectReason(t, `{}`, "content is required")
	expectReason(t, `{"content": 42}`, "content must be a string")
	expectReason(t, `{"content": "   "}`, "content must not be empty")

	small := convert.Limits{MaxContentBytes: 8}
	_, err := convert.ParseRequest([]byte(`{"content":"0123456789"}`), small, testPresets())
	if err == nil || !strings.Contains(err.Error(), "maximum size") {
		t.Fatalf("expected oversize error, got %v", err)
	}
}

func TestParseRequestOutputFormat(t *testing.T) {
	req := mustParse(t, `{"content":"x","output_format":"html"}`)
	if req.Format != convert.FormatHTML {
		t.Fatalf("expected html, got %q", req.Format)
	}

	expectReason(t, `{"content":"x","output_format":"docx"}`, "unsupported output_format")
	expectReason(t, `{"content":"x","output_format":7}`, "output_format must be a string")
}

func TestParseRequestTranspose(t *testing.T) {
	req := mustParse(t, `{"content":"x","options":{"transpose":-3}}`)
	if req.Options.Transpose == nil || *req.Options.Transpose != -3 {
		t.Fatalf("unexpected transpose: %v", req.Options.Transpose)
	}

	expectReason(t, `{"content":"x","options":{"transpose":"2"}}`, "transpose must be an integer")
	expectReason(t, `{"content":"x","options":{"transpose":2.5}}`, "transpose must be an integer")
	expectReason(t, `{"content":"x","options":{"transpose":49}}`, "between")
	expectReason(t, `{"content":"x","options":{"transpose":-49}}`, "between")
}

func TestParseRequestMeta(t *testing.T) {
	req := mustParse(t, `{"content":"x","options":{"meta":{"title":"Song","artist":"Band"}}}`)
	want := map[string]string{"title": "Song", "artist": "Band"}
	if !reflect.DeepEqual(req.Options.Meta, want) {
		t.Fatalf("unexpected meta: %v", req.Options.Meta)
	}

	expectReason(t, `{"content":"x","options":{"meta":{"year":2024}}}`, "meta must be a flat object")
	expectReason(t, `{"content":"x","options":{"meta":["title"]}}`, "meta must be a flat object")
}

func TestParseRequestDiagrams(t *testing.T) {
	req := mustParse(t, `{"content":"x","options":{"diagrams":false}}`)
	if req.Options.Diagrams {
		t.Fatal("expected diagrams disabled")
	}
	expectReason(t, `{"content":"x","options":{"diagrams":"no"}}`, "diagrams must be a boolean")
}

func TestParseRequestConfigStringAndArrayAgree(t *testing.T) {
	fromString := mustParse(t, `{"content":"x","options":{"config":"ukulele, modern3"}}`)
	fromArray := mustParse(t, `{"content":"x","options":{"config":["ukulele","modern3"]}}`)

	if !reflect.DeepEqual(fromString.Options.Configs, fromArray.Options.Configs) {
		t.Fatalf("string and array forms disagree: %v vs %v",
			fromString.Options.Configs, fromArray.Options.Configs)
	}
	if want := []string{"ukulele", "modern3"}; !reflect.DeepEqual(fromString.Options.Configs, want) {
		t.Fatalf("order not preserved: %v", fromString.Options.Configs)
	}
}

func TestParseRequestConfigResolvesReferences(t *testing.T) {
	req := mustParse(t, `{"content":"x","options":{"config":"worship"}}`)
	if want := []string{"/etc/chordserve/worship.json"}; !reflect.DeepEqual(req.Options.Configs, want) {
		t.Fatalf("expected resolved reference, got %v", req.Options.Configs)
	}
}

func TestParseRequestConfigRejectsUnknownPreset(t *testing.T) {
	expectReason(t, `{"content":"x","options":{"config":"nonexistent-preset"}}`, `"nonexistent-preset"`)
	expectReason(t, `{"content":"x","options":{"config":["ukulele","nope"]}}`, `"nope"`)
	expectReason(t, `{"content":"x","options":{"config":7}}`, "string or an array")
}

func TestParseRequestOptionsMustBeObject(t *testing.T) {
	expectReason(t, `{"content":"x","options":"fast"}`, "options must be an object")
}
