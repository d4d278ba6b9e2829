package main

import "github.com/spec-kit/course-service/internal/cli"

func main() {
	cli.Execute()
}
