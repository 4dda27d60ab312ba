package language

import "testing"

func TestFromCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "zh", want: "Chinese"},
		{code: "en", want: "English"},
		{code: "", want: "Auto-detect"},
		{code: "xx", want: "Auto-detect"},
	}
	for _, tt := range tests {
		if got := FromCode(tt.code).Name; got != tt.want {
			t.Errorf("FromCode(%q).Name = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestIsValidCode(t *testing.T) {
	for _, code := range []string{"", "zh", "en", "ja", "cy"} {
		if !IsValidCode(code) {
			t.Errorf("IsValidCode(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"zz", "english", "ZH"} {
		if IsValidCode(code) {
			t.Errorf("IsValidCode(%q) = true, want false", code)
		}
	}
}

func TestList(t *testing.T) {
	list := List()
	if len(list) == 0 {
		t.Fatal("List() returned no languages")
	}
	seen := map[string]bool{}
	for _, lang := range list {
		if lang.Code == "" {
			t.Error("List() should not include Auto")
		}
		if seen[lang.Code] {
			t.Errorf("duplicate code %s", lang.Code)
		}
		seen[lang.Code] = true
	}

	list[0].Name = "changed"
	if List()[0].Name == "changed" {
		t.Error("List() should return a copy")
	}
}

func TestLabel(t *testing.T) {
	if got := Chinese.Label(); got != "Chinese (中文)" {
		t.Errorf("Label() = %s", got)
	}
	if got := FromCode("en").Label(); got != "English" {
		t.Errorf("Label() = %s", got)
	}
	if got := Auto.Label(); got != "Auto-detect" {
		t.Errorf("Label() = %s", got)
	}
}

func TestForBackend(t *testing.T) {
	tests := []struct {
		code, backend, want string
	}{
		{"zh", "whisper-cpp", "zh"},
		{"", "whisper-cpp", "auto"},
		{"zh", "openai", "zh"},
		{"", "openai", ""},
	}
	for _, tt := range tests {
		if got := ForBackend(tt.code, tt.backend); got != tt.want {
			t.Errorf("ForBackend(%q, %q) = %q, want %q", tt.code, tt.backend, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"auto", ""},
		{"zh", "zh"},
		{"zh-CN", "zh"},
		{"zh_TW", "zh"},
		{"ZH", "zh"},
		{"pt-BR", "pt"},
		{" en ", "en"},
		{"not a tag", "not a tag"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
