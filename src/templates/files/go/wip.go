package main

import (
	"fmt"
	"os"
	"unicode/utf8"
)

func main() {
	data, err := os.ReadFile("input.txt")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else if !utf8.Valid(data) {
		fmt.Fprintln(os.Stderr, "input.txt is not valid UTF-8 text")
		os.Exit(1)
	}
	input := string(data)
	_ = input

	result := 0
	fmt.Printf("Result: %d\n", result)
}
