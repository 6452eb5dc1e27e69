package sandbox

// Recipe is the fixed build+run recipe for one supported language tag.
type Recipe struct {
	// Image is the base image pulled (if missing) before the run.
	Image string
	// Filename is the canonical source filename written into /workspace.
	Filename string
	// Command is run inside the container, with /workspace as the working directory.
	Command []string
	// AllowNetwork permits outbound network for this language only (go's
	// module resolver needs it). Every other language runs network-disabled.
	AllowNetwork bool
}

// recipes is the closed per-language table (spec §4.C). The "c" entry has no
// dedicated row in the component table; it is derived from the "cpp" row
// (same gcc:latest image and build-then-run shape) since §3 names c as one
// of the six supported language tags.
var recipes = map[string]Recipe{
	"python": {
		Image:    "python:3.11-slim",
		Filename: "code.py",
		Command:  []string{"sh", "-c", "python code.py"},
	},
	"javascript": {
		Image:    "node:22-alpine",
		Filename: "code.js",
		Command:  []string{"sh", "-c", "node code.js"},
	},
	"java": {
		Image:    "openjdk:22-jre-slim",
		Filename: "code.java",
		Command:  []string{"sh", "-c", "javac code.java && java code"},
	},
	"cpp": {
		Image:    "gcc:latest",
		Filename: "code.cpp",
		Command:  []string{"sh", "-c", "g++ -std=c++17 -o program code.cpp && ./program"},
	},
	"c": {
		Image:    "gcc:latest",
		Filename: "code.c",
		Command:  []string{"sh", "-c", "gcc -o program code.c && ./program"},
	},
	"go": {
		Image:        "golang:1.22-alpine",
		Filename:     "code.go",
		Command:      []string{"sh", "-c", "GOCACHE=/tmp GOPROXY=direct GOSUMDB=off GO111MODULE=auto go run code.go"},
		AllowNetwork: true,
	},
}

// RecipeFor returns the recipe for a supported language tag.
func RecipeFor(language string) (Recipe, bool) {
	r, ok := recipes[language]
	return r, ok
}
