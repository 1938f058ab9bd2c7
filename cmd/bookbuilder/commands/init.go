package commands

import (
	"fmt"

	"git.home.luguber.info/inful/bookbuilder/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	return RunInit(root.Config, i.Force)
}

// RunInit writes the example configuration and creates every chapter,
// template and manifest it names that does not exist yet.
func RunInit(configPath string, force bool) error {
	fmt.Println("Initializing bookbuilder project")
	fmt.Printf("Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Println("Initialization failed")
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	created, err := config.Scaffold(cfg)
	if err != nil {
		return err
	}
	for _, path := range created {
		fmt.Printf("Created %s\n", path)
	}
	fmt.Println("initialized successfully")
	return nil
}
