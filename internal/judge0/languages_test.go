package judge0

import "testing"

func TestResolveLanguageID(t *testing.T) {
	tests := []struct {
		slug string
		name string
		want int
	}{
		{"python", "", LangPython},
		{"py", "", LangPython},
		{"golang", "", LangGo},
		{"", "JavaScript", LangJavaScript},
		{"", "C++", LangCPP},
		{"SH", "", LangBash},
		{"unknown", "unknown", 0},
		{"", "", 0},
		// slug wins over name
		{"rust", "python", LangRust},
	}
	for _, tt := range tests {
		if got := ResolveLanguageID(tt.slug, tt.name); got != tt.want {
			t.Errorf("ResolveLanguageID(%q, %q) = %d; want %d", tt.slug, tt.name, got, tt.want)
		}
	}
}

func TestLanguageIDForExerciseDefaultsToJava(t *testing.T) {
	got := LanguageIDForExercise(ExerciseLanguage{Slug: "cobol"})
	if got != LangJava {
		t.Errorf("LanguageIDForExercise(cobol) = %d; want Java (%d)", got, LangJava)
	}
}

func TestDefaultTemplate(t *testing.T) {
	if tpl := DefaultTemplate(LangPython); tpl == FallbackTemplate {
		t.Error("Python should have a dedicated template")
	}
	if tpl := DefaultTemplate(LangScala); tpl != FallbackTemplate {
		t.Errorf("Scala has no canned template; got %q", tpl)
	}
}

func TestDefaultTemplateForExercise(t *testing.T) {
	// An author-provided template is returned verbatim.
	ex := ExerciseLanguage{Slug: "python", CodeTemplate: "def solve():\n    pass\n"}
	if got := DefaultTemplateForExercise(ex); got != ex.CodeTemplate {
		t.Errorf("got %q; want the author template", got)
	}

	// Otherwise the language's canned snippet wins.
	if got := DefaultTemplateForExercise(ExerciseLanguage{Slug: "python"}); got != DefaultTemplate(LangPython) {
		t.Errorf("got %q; want python template", got)
	}

	// Unresolvable language falls back to the Java snippet.
	if got := DefaultTemplateForExercise(ExerciseLanguage{}); got != DefaultTemplate(LangJava) {
		t.Errorf("got %q; want java template", got)
	}
}

func TestCompiledVsScript(t *testing.T) {
	for _, id := range []int{LangC, LangCPP, LangJava, LangCSharp, LangGo, LangRust} {
		if !IsCompiledLanguage(id) {
			t.Errorf("IsCompiledLanguage(%d) = false; want true", id)
		}
	}
	for _, id := range []int{LangBash, LangPython, LangJavaScript, LangPHP, LangRuby} {
		if !IsScriptLanguage(id) {
			t.Errorf("IsScriptLanguage(%d) = false; want true", id)
		}
	}
	if IsCompiledLanguage(LangPython) {
		t.Error("Python is not compiled")
	}
}
