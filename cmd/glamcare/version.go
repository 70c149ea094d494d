package main

import (
	"context"
	"fmt"

	"github.com/a-h/glamcare"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(glamcare.Version)
	return nil
}
