package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSDKCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sdk",
		Short: "Manage the firmware toolchain SDK",
		RunE:  func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newSDKInstallCmd())
	cmd.AddCommand(newSDKImportCmd())
	return cmd
}

func newSDKInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download and install toolchains, fully or selectively",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			out, err := container.SDKInstallUseCase().Execute(cmd.Context())
			if err != nil {
				return reportCancellable(err)
			}

			if len(out.Toolchains) == 0 {
				fmt.Printf("Installed the full toolchain set (%s, %s).\n", out.Mode, formatElapsed(out.ElapsedMs))
			} else {
				fmt.Printf("Installed %s (%s).\n", strings.Join(out.Toolchains, ", "), formatElapsed(out.ElapsedMs))
			}
			return nil
		},
	}
}

func newSDKImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <archive>",
		Short: "Unpack a locally downloaded SDK bundle (.tar.xz)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			out, err := container.SDKImportUseCase().Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Unpacked %d files into %s (%s).\n", out.Files, out.Dir, formatElapsed(out.ElapsedMs))
			return nil
		},
	}
}
