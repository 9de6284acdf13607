package main

import (
	"fmt"

	"github.com/henderiw/rangelist/pkg/rangelist"
)

var steps = []struct {
	op        string
	low, high int64
}{
	{op: "add", low: 1, high: 5},
	{op: "add", low: 10, high: 20},
	{op: "add", low: 20, high: 20},
	{op: "add", low: 20, high: 21},
	{op: "add", low: 2, high: 4},
	{op: "add", low: 3, high: 8},
	{op: "remove", low: 10, high: 10},
	{op: "remove", low: 10, high: 11},
	{op: "remove", low: 15, high: 17},
	{op: "remove", low: 3, high: 19},
	{op: "add", low: 3, high: 19},
}

func main() {
	rl := rangelist.New()

	for _, s := range steps {
		var err error
		switch s.op {
		case "add":
			err = rl.Add(s.low, s.high)
		case "remove":
			err = rl.Remove(s.low, s.high)
		}
		if err != nil {
			panic(err)
		}
		fmt.Printf("%-6s [%d,%d) -> %s\n", s.op, s.low, s.high, rl.String())
	}
}
