package main

import (
	"vllm-benchmark/internal/cli"
)

func main() {
	cli.Execute()
}
