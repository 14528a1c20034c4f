package expr

import (
	"fmt"
	"math"
	"sort"
)

// UnaryFunc computes a function of one argument. It returns an *Error of
// kind DomainError when the argument is outside the function's domain.
type UnaryFunc func(x float64) (float64, error)

var (
	functions = map[string]UnaryFunc{}
	constants = map[string]float64{}
)

// RegisterFunc adds a function to the identifier vocabulary.
func RegisterFunc(name string, fn UnaryFunc) {
	functions[name] = fn
}

// RegisterConst adds a constant to the identifier vocabulary.
func RegisterConst(name string, val float64) {
	constants[name] = val
}

// GetFunc returns a function by name.
func GetFunc(name string) (UnaryFunc, error) {
	fn, ok := functions[name]
	if !ok {
		return nil, fmt.Errorf("unknown function: %s", name)
	}
	return fn, nil
}

// GetConst returns a constant by name.
func GetConst(name string) (float64, error) {
	v, ok := constants[name]
	if !ok {
		return 0, fmt.Errorf("unknown constant: %s", name)
	}
	return v, nil
}

// IsFunc reports whether name is a registered function.
func IsFunc(name string) bool {
	_, ok := functions[name]
	return ok
}

// IsConst reports whether name is a registered constant.
func IsConst(name string) bool {
	_, ok := constants[name]
	return ok
}

// IsIdent reports whether name belongs to the identifier vocabulary.
func IsIdent(name string) bool {
	return IsFunc(name) || IsConst(name)
}

// Names returns every registered identifier, sorted.
func Names() []string {
	names := make([]string, 0, len(functions)+len(constants))
	for k := range functions {
		names = append(names, k)
	}
	for k := range constants {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterFunc("sin", total(math.Sin))
	RegisterFunc("cos", total(math.Cos))
	RegisterFunc("tan", total(math.Tan))
	RegisterFunc("abs", total(math.Abs))
	RegisterFunc("sqrt", func(x float64) (float64, error) {
		if x < 0 {
			return 0, Errorf(DomainError, NoPos, "sqrt of negative number %g", x)
		}
		return math.Sqrt(x), nil
	})
	// log is the natural logarithm; the canonicalizer maps the user's "ln" here.
	RegisterFunc("log", positive("log", math.Log))
	RegisterFunc("log10", positive("log10", math.Log10))

	RegisterConst("pi", math.Pi)
	RegisterConst("e", math.E)
}

func total(f func(float64) float64) UnaryFunc {
	return func(x float64) (float64, error) {
		return f(x), nil
	}
}

func positive(name string, f func(float64) float64) UnaryFunc {
	return func(x float64) (float64, error) {
		if x <= 0 {
			return 0, Errorf(DomainError, NoPos, "%s of non-positive number %g", name, x)
		}
		return f(x), nil
	}
}
