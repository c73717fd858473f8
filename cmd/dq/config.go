package main

import "github.com/fwojciec/dq/toml"

// Run executes the config command.
func (c *ConfigCmd) Run(deps *Dependencies) error {
	if err := toml.Write(deps.stdout(), deps.Config); err != nil {
		return deps.fail(err)
	}
	return nil
}
