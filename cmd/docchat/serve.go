package main

import (
	"fmt"

	"github.com/fwojciec/docchat/gin"
)

// Run executes the serve command. It blocks until the context is done.
func (c *ServeCmd) Run(deps *Dependencies) error {
	index, err := openIndex(deps)
	if err != nil {
		return err
	}
	defer index.Close()

	s := gin.NewServer()
	s.Addr = c.Addr
	s.AllowOrigins = c.AllowOrigins
	s.Asker = newAsker(deps, index)
	s.Index = index
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Serving on %s\n", s.URL())

	<-deps.Ctx.Done()

	deps.Logger.Info("shutting down")
	return s.Close()
}
