package report

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ExampleFailed prefixes the text rendered when no example can be built.
const ExampleFailed = "Could not generate example usage: "

var placeholderRe = regexp.MustCompile(`^\*{0,2}[A-Za-z_][A-Za-z0-9_]*$`)

// Example builds a usage snippet: the class instantiated into a variable
// named after it, then, unless method is the constructor, a call of method
// on that variable. Parameter names serve as placeholder arguments.
func Example(class, method string, initArgs, methodArgs []string) string {
	s, err := example(class, method, initArgs, methodArgs)
	if err != nil {
		return ExampleFailed + err.Error()
	}
	return s
}

func example(class, method string, initArgs, methodArgs []string) (string, error) {
	if class == "" {
		return "", errors.New("missing class name")
	}
	if err := checkArgs(initArgs); err != nil {
		return "", err
	}
	v := strings.ToLower(class)
	line := fmt.Sprintf("%s = %s(%s)", v, class, strings.Join(initArgs, ", "))
	if method == "__init__" || method == "" {
		return line, nil
	}
	if err := checkArgs(methodArgs); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n%s.%s(%s)", line, v, method, strings.Join(methodArgs, ", ")), nil
}

func checkArgs(args []string) error {
	for _, a := range args {
		if !placeholderRe.MatchString(a) {
			return fmt.Errorf("invalid argument name %q", a)
		}
	}
	return nil
}
