package cli

import "context"

// Devices prints the device inventory, rescanning first when asked.
func (a *App) Devices(ctx context.Context, rescan bool) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	list, err := a.client.ListDevices(ctx, rescan)
	if err != nil {
		return a.sessionCheck(err)
	}
	renderDevices(a.out, list)
	return nil
}
