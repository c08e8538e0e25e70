package entity

import (
	"fmt"
	"strings"
)

// ABCClass clase de control Pareto de un ítem.
type ABCClass string

const (
	ABCClassA ABCClass = "A" // ~70% del valor anual
	ABCClassB ABCClass = "B" // siguiente ~20%
	ABCClassC ABCClass = "C" // resto
)

// abcRank tabla explícita de orden (A es la clase de mayor control).
var abcRank = map[ABCClass]int{
	ABCClassA: 1,
	ABCClassB: 2,
	ABCClassC: 3,
}

// ParseABCClass convierte "a", "B", etc. en ABCClass. Devuelve error si no pertenece a {A,B,C}.
func ParseABCClass(s string) (ABCClass, error) {
	c := ABCClass(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := abcRank[c]; !ok {
		return "", fmt.Errorf("clase ABC inválida: %q", s)
	}
	return c, nil
}

// Valid indica si la clase pertenece al conjunto cerrado {A,B,C}.
func (c ABCClass) Valid() bool {
	_, ok := abcRank[c]
	return ok
}

// Rank posición de la clase (1 = A). Devuelve 0 para una clase vacía o desconocida.
func (c ABCClass) Rank() int {
	return abcRank[c]
}

// Less ordena por rango: A < B < C; las clases vacías quedan al final.
func (c ABCClass) Less(other ABCClass) bool {
	a, b := c.Rank(), other.Rank()
	if a == 0 {
		return false
	}
	if b == 0 {
		return true
	}
	return a < b
}

func (c ABCClass) String() string { return string(c) }
