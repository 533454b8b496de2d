// Package face finds faces and smiles with cascade detectors.
package face

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownExpression is returned when a string does not name an expression.
var ErrUnknownExpression = errors.New("unknown face expression")

// Expression is the frame-level face verdict.
type Expression string

const (
	Smiling    Expression = "Smiling"
	NotSmiling Expression = "Not Smiling"
)

// Expressions lists every expression in display order.
var Expressions = []Expression{Smiling, NotSmiling}

func (e Expression) String() string {
	return string(e)
}

var expressionAliases = map[string]Expression{
	"smiling":      Smiling,
	"smile":        Smiling,
	"sonriendo":    Smiling,
	"not smiling":  NotSmiling,
	"not_smiling":  NotSmiling,
	"notsmiling":   NotSmiling,
	"no smile":     NotSmiling,
	"no sonriendo": NotSmiling,
}

// ParseExpression parses an expression label, case-insensitively.
func ParseExpression(s string) (Expression, error) {
	if e, ok := expressionAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return e, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExpression, s)
}
