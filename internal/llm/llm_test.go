package llm

import "testing"

func TestIsKnownModel(t *testing.T) {
	if !IsKnownModel(DefaultModel) {
		t.Errorf("default model %q should be known", DefaultModel)
	}
	for _, name := range []string{"", "gpt-unknown", "LLAMA-3.3-70B-VERSATILE"} {
		if IsKnownModel(name) {
			t.Errorf("%q should not be known", name)
		}
	}
}
