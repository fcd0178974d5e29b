package model

import "testing"

func TestResolveEntryPoint(t *testing.T) {
	tests := []struct {
		name string
		code GeneratedCode
		want string
	}{
		{
			name: "parsed class wins over declared name",
			code: GeneratedCode{
				EntryPointName: "DeclaredScene",
				SourceText:     "from manim import *\n\nclass ActualScene(Scene):\n    def construct(self):\n        pass\n",
			},
			want: "ActualScene",
		},
		{
			name: "declared name used when source has no scene class",
			code: GeneratedCode{
				EntryPointName: "DeclaredScene",
				SourceText:     "x = 1\n",
			},
			want: "DeclaredScene",
		},
		{
			name: "default when neither is usable",
			code: GeneratedCode{SourceText: "x = 1\n"},
			want: DefaultEntryPoint,
		},
		{
			name: "non-scene class is ignored",
			code: GeneratedCode{
				EntryPointName: "Helper",
				SourceText:     "class Config(object):\n    pass\n",
			},
			want: "Helper",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.ResolveEntryPoint(); got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}
