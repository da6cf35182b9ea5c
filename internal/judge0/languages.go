// Package judge0 talks to the Judge0 CE execution sandbox and owns the
// mapping from platform languages to Judge0 runtime IDs and starter
// templates.
package judge0

import "strings"

// Judge0 CE language IDs. Reference: https://ce.judge0.com/languages
const (
	LangC          = 50 // C (GCC 9.2.0)
	LangCPP        = 54 // C++ (GCC 9.2.0)
	LangJava       = 62 // Java (OpenJDK 13.0.1)
	LangPython     = 71 // Python (3.8.1)
	LangJavaScript = 63 // JavaScript (Node.js 12.14.0)
	LangTypeScript = 74 // TypeScript (3.7.4)
	LangBash       = 46 // Bash (5.0.0)
	LangCSharp     = 51 // C# (Mono 6.6.0.161)
	LangGo         = 60 // Go (1.13.5)
	LangRust       = 73 // Rust (1.40.0)
	LangPHP        = 68 // PHP (7.4.1)
	LangRuby       = 72 // Ruby (2.7.0)
	LangSwift      = 83 // Swift (5.2.3)
	LangKotlin     = 78 // Kotlin (1.3.70)
	LangScala      = 81 // Scala (2.13.2)
)

// FallbackTemplate is used when no language-specific starter exists.
const FallbackTemplate = "// start coding..."

var slugToID = map[string]int{
	"c":      LangC,
	"c-lang": LangC,

	"cpp":       LangCPP,
	"c++":       LangCPP,
	"cplusplus": LangCPP,

	"java": LangJava,

	"python": LangPython,
	"py":     LangPython,

	"javascript": LangJavaScript,
	"js":         LangJavaScript,
	"node":       LangJavaScript,

	"typescript": LangTypeScript,
	"ts":         LangTypeScript,

	"bash":  LangBash,
	"shell": LangBash,
	"sh":    LangBash,

	"csharp": LangCSharp,
	"c#":     LangCSharp,
	"cs":     LangCSharp,

	"go":     LangGo,
	"golang": LangGo,

	"rust": LangRust,
	"rs":   LangRust,

	"php": LangPHP,

	"ruby": LangRuby,
	"rb":   LangRuby,

	"swift": LangSwift,

	"kotlin": LangKotlin,
	"kt":     LangKotlin,

	"scala": LangScala,
}

var nameToID = map[string]int{
	"c":          LangC,
	"c++":        LangCPP,
	"cpp":        LangCPP,
	"java":       LangJava,
	"python":     LangPython,
	"javascript": LangJavaScript,
	"typescript": LangTypeScript,
	"bash":       LangBash,
	"shell":      LangBash,
	"c#":         LangCSharp,
	"csharp":     LangCSharp,
	"go":         LangGo,
	"rust":       LangRust,
	"php":        LangPHP,
	"ruby":       LangRuby,
	"swift":      LangSwift,
	"kotlin":     LangKotlin,
	"scala":      LangScala,
}

var codeTemplates = map[int]string{
	LangC: `#include <stdio.h>
#include <stdlib.h>

int main() {
    // Your code here
    printf("Hello, World!\n");
    return 0;
}`,
	LangCPP: `#include <iostream>
using namespace std;

int main() {
    // Your code here
    cout << "Hello, World!" << endl;
    return 0;
}`,
	LangJava: `public class Main {
    public static void main(String[] args) {
        // Your code here
        System.out.println("Hello, World!");
    }
}`,
	LangBash: `#!/bin/bash

# Your code here
echo "Hello, World!"`,
	LangPython: `# Your code here
print("Hello, World!")`,
	LangJavaScript: `// Your code here
console.log("Hello, World!");`,
	LangTypeScript: `// Your code here
console.log("Hello, World!");`,
	LangCSharp: `using System;

class Program {
    static void Main() {
        // Your code here
        Console.WriteLine("Hello, World!");
    }
}`,
	LangGo: `package main

import "fmt"

func main() {
    // Your code here
    fmt.Println("Hello, World!")
}`,
	LangRust: `fn main() {
    // Your code here
    println!("Hello, World!");
}`,
	LangPHP: `<?php
// Your code here
echo "Hello, World!";
?>`,
	LangRuby: `# Your code here
puts "Hello, World!"`,
}

// ResolveLanguageID maps a language slug or name to a Judge0 runtime ID.
// Slugs win over names. Returns 0 when nothing matches.
func ResolveLanguageID(slug, name string) int {
	if s := strings.ToLower(strings.TrimSpace(slug)); s != "" {
		if id, ok := slugToID[s]; ok {
			return id
		}
	}
	if n := strings.ToLower(strings.TrimSpace(name)); n != "" {
		if id, ok := nameToID[n]; ok {
			return id
		}
	}
	return 0
}

// ExerciseLanguage is the subset of exercise metadata needed to pick a
// sandbox runtime and a starter template.
type ExerciseLanguage struct {
	Slug         string
	Name         string
	CodeTemplate string
}

// LanguageIDForExercise resolves the Judge0 runtime for an exercise,
// defaulting to Java when the language cannot be resolved (parity with the
// web frontend).
func LanguageIDForExercise(ex ExerciseLanguage) int {
	if id := ResolveLanguageID(ex.Slug, ex.Name); id != 0 {
		return id
	}
	return LangJava
}

// DefaultTemplate returns the starter snippet for a Judge0 runtime.
func DefaultTemplate(languageID int) string {
	if tpl, ok := codeTemplates[languageID]; ok {
		return tpl
	}
	return FallbackTemplate
}

// DefaultTemplateForExercise picks the starting code for an exercise: the
// author-provided template verbatim when present, otherwise the canned
// snippet for its language.
func DefaultTemplateForExercise(ex ExerciseLanguage) string {
	if ex.CodeTemplate != "" {
		return ex.CodeTemplate
	}
	return DefaultTemplate(LanguageIDForExercise(ex))
}

// IsCompiledLanguage reports whether the runtime compiles ahead of running.
func IsCompiledLanguage(languageID int) bool {
	switch languageID {
	case LangC, LangCPP, LangJava, LangCSharp, LangGo, LangRust:
		return true
	}
	return false
}

// IsScriptLanguage reports whether the runtime is interpreted.
func IsScriptLanguage(languageID int) bool {
	switch languageID {
	case LangBash, LangPython, LangJavaScript, LangPHP, LangRuby:
		return true
	}
	return false
}
