package cli

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	store, err := ctx.Store()
	if err != nil {
		return err
	}
	if err := store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized blockout storage at: %s\n", store.GetConfigPath())
	return nil
}
