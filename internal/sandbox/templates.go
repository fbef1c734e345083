// Package sandbox drives code execution on the remote sandbox executor and
// tracks whether the per-language container images it needs are present.
package sandbox

// Sandbox languages, as the executor names them
const (
	Python     = "python"
	JavaScript = "javascript"
	Java       = "java"
)

// Languages lists the sandbox languages in selector order
var Languages = []string{Python, JavaScript, Java}

var templates = map[string]string{
	Python:     "print('Hello from Python sandbox!')\nfor i in range(3):\n    print(f'Count: {i}')",
	JavaScript: "console.log('Hello from Node!');\nfor (let i=0;i<3;i++){ console.log('Count: ' + i); }",
	Java: "public class Main {\n" +
		"  public static void main(String[] args){\n" +
		"    System.out.println(\"Hello from Java!\");\n" +
		"    for(int i=0;i<3;i++){ System.out.println(\"Count: \"+i); }\n" +
		"  }\n" +
		"}",
}

// Template returns the starter snippet for lang and whether lang is supported.
func Template(lang string) (string, bool) {
	t, ok := templates[lang]
	return t, ok
}
