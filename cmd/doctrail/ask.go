package main

import (
	"fmt"
	"io"

	"github.com/doctrail/doctrail"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	completion, err := deps.Engine.Complete(deps.Ctx, []doctrail.Message{
		{Role: doctrail.RoleUser, Content: c.Question},
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doctrail.ErrorMessage(err))
		return err
	}
	defer completion.Stream.Close()

	for {
		fragment, err := completion.Stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", doctrail.ErrorMessage(err))
			return err
		}
		fmt.Fprint(deps.Stdout, fragment)
	}
	fmt.Fprintln(deps.Stdout)

	if c.Sources {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Sources:")
		for i, source := range completion.Sources {
			fmt.Fprintf(deps.Stdout, "%d. (%.2f) %s\n", i+1, source.Score, source.Text)
		}
	}

	return nil
}
