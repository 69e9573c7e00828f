package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tileboard/pkg/imagesource"
)

// imagesCommand fetches the image list and prints a sample of it.
func (c *CLI) imagesCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Show the images new tiles are drawn from",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			spin := newSpinner(ctx, cmd.ErrOrStderr(), "Fetching image list...")
			spin.Start()
			urls, err := ws.images.Images(ctx)
			if err != nil {
				if spin.Cancelled() {
					spin.Stop()
					return ctx.Err()
				}
				spin.StopWithError("Could not fetch image list")
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("%d images available", len(urls)))

			source := "static list"
			if client, ok := ws.images.(*imagesource.Client); ok {
				source = client.Endpoint()
			}
			printKeyValue("Source", source)
			printKeyValue("Cache", ws.cfg.Cache.Backend)

			for i, u := range urls {
				if limit > 0 && i >= limit {
					printDetail("... %d more", len(urls)-limit)
					break
				}
				printDetail("%s", u)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "number of urls to list (0 for all)")
	return cmd
}
