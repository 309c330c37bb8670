// Package activations provides the element-wise transfer functions applied
// after each layer's linear map.
package activations

import (
	"fmt"
	"math"
)

// Transfer identifies a transfer function and its derivative.
// The set is closed; the zero value is not a valid transfer.
type Transfer uint8

const (
	_ Transfer = iota
	// Logistic is 1/(1+e^-x).
	Logistic
	// Identity is the pure line y = x.
	Identity
	// Tanh is the hyperbolic tangent.
	Tanh
	// ReLU is max(0, x).
	ReLU
)

var names = map[Transfer]string{
	Logistic: "logistic",
	Identity: "identity",
	Tanh:     "tanh",
	ReLU:     "relu",
}

// Activate computes f(x)
func (t Transfer) Activate(x float64) float64 {
	switch t {
	case Logistic:
		return 1 / (1 + math.Exp(-x))
	case Identity:
		return x
	case Tanh:
		return math.Tanh(x)
	case ReLU:
		if x > 0 {
			return x
		}
		return 0
	}
	panic(fmt.Sprintf("activations: invalid transfer %d", uint8(t)))
}

// Derivative computes f'(x)
func (t Transfer) Derivative(x float64) float64 {
	switch t {
	case Logistic:
		e := math.Exp(-x)
		if math.IsInf(e, 1) {
			return 0
		}
		return e / ((1 + e) * (1 + e))
	case Identity:
		return 1
	case Tanh:
		tanhX := math.Tanh(x)
		return 1 - tanhX*tanhX
	case ReLU:
		if x > 0 {
			return 1
		}
		return 0
	}
	panic(fmt.Sprintf("activations: invalid transfer %d", uint8(t)))
}

// Valid reports whether t names a known transfer function.
func (t Transfer) Valid() bool {
	_, ok := names[t]
	return ok
}

func (t Transfer) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("Transfer(%d)", uint8(t))
}

// Parse returns the transfer function with the given name.
func Parse(name string) (Transfer, error) {
	for t, n := range names {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown transfer function %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Transfer) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown transfer function %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Transfer) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
