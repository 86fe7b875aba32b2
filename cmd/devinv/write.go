package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/devinv/internal/form"
	"github.com/muurk/devinv/internal/gateway"
	"github.com/muurk/devinv/internal/logging"
	"github.com/muurk/devinv/internal/ui"
)

// stdinIsTerminal decides whether delete may prompt
var stdinIsTerminal = ui.IsInteractive

// Field flags for create and update
var (
	createValues form.Values
	updateValues form.Values
	deleteYes    bool
)

func init() {
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}

// addFieldFlags registers one flag per form field, named after the field
func addFieldFlags(cmd *cobra.Command, v *form.Values, withCode bool) {
	if withCode {
		cmd.Flags().StringVar(&v.Code, string(form.FieldCode), "", "Device code (unique, cannot be changed later)")
	}
	cmd.Flags().StringVar(&v.Name, string(form.FieldName), "", "Device name")
	cmd.Flags().StringVar(&v.Type, string(form.FieldType), "", "Device type, e.g. 服务器")
	cmd.Flags().StringVar(&v.Status, string(form.FieldStatus), "", "Device status, e.g. 使用中")
	cmd.Flags().StringVar(&v.Location, string(form.FieldLocation), "", "Physical location")
	cmd.Flags().StringVar(&v.Owner, string(form.FieldOwner), "", "Responsible person")
	cmd.Flags().StringVar(&v.Department, string(form.FieldDepartment), "", "Department code")
}

// createCmd adds a device
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a device",
	Long: `Add a device to the inventory.

Every field is required except --status, which defaults to 使用中. Values
are checked before anything is sent: --type must be a known device type and
--status one of the assignable statuses (the legacy 运行中 is also
accepted).`,
	Example: `  devinv create --code D042 --name web-42 --type 服务器 \
    --location "Rack 3" --owner alice --department IT`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	addFieldFlags(createCmd, &createValues, true)
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := connect(cmd)
	if err != nil {
		return err
	}

	var c form.Controller
	c.Open(form.Create(), createValues)
	return submitForm(cmd, &c, client, "Could not add device")
}

// updateCmd changes an existing device
var updateCmd = &cobra.Command{
	Use:   "update <code>",
	Short: "Change a device",
	Long: `Change fields of an existing device.

The device is fetched first and only the fields given as flags are changed.
The code itself cannot be changed. A device still carrying the legacy
运行中 status keeps it unless --status is given.`,
	Example: `  # Mark a device as under repair
  devinv update D042 --status 维修中

  # Move it to another department and owner
  devinv update D042 --department HR --owner bob`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	addFieldFlags(updateCmd, &updateValues, false)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	code := args[0]

	var changed []form.Field
	for _, f := range form.Fields {
		if f != form.FieldCode && cmd.Flags().Changed(string(f)) {
			changed = append(changed, f)
		}
	}
	if len(changed) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag (see 'devinv update --help')")
	}

	client, err := connect(cmd)
	if err != nil {
		return err
	}

	device, err := client.GetDevice(cmd.Context(), code)
	if err != nil {
		return loadError("device "+code, err)
	}

	var c form.Controller
	c.Open(form.Edit(code), form.FromDevice(*device))
	for _, f := range changed {
		c.Set(f, updateValues.Get(f))
	}
	return submitForm(cmd, &c, client, "Could not update device")
}

// submitForm submits an open form and prints the result box.
func submitForm(cmd *cobra.Command, c *form.Controller, w gateway.DeviceWriter, failure string) error {
	values := c.Values().Trimmed()

	outcome, err := c.Submit(cmd.Context(), w)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.NewFailureResult(failure, err).Render())
		return errors.New(outcome.Message)
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.NewSuccessResult(outcome.Message,
		ui.Param{Key: "Code", Value: values.Code},
		ui.Param{Key: "Name", Value: values.Name},
		ui.Param{Key: "Type", Value: values.Type},
		ui.Param{Key: "Status", Value: values.Status},
		ui.Param{Key: "Department", Value: values.Department},
	).Render())
	return nil
}

// deleteCmd removes a device
var deleteCmd = &cobra.Command{
	Use:   "delete <code>",
	Short: "Delete a device",
	Long: `Delete a device from the inventory.

Asks for confirmation unless --yes is given. Without a terminal to ask on,
--yes is required.`,
	Example: `  devinv delete D042
  devinv delete D042 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}

func runDelete(cmd *cobra.Command, args []string) error {
	code := args[0]
	if !deleteYes && !stdinIsTerminal() {
		return fmt.Errorf("refusing to delete %s without confirmation: pass --yes", code)
	}

	client, err := connect(cmd)
	if err != nil {
		return err
	}

	if !deleteYes {
		device, err := client.GetDevice(cmd.Context(), code)
		if err != nil {
			return loadError("device "+code, err)
		}
		warnings := []string{
			fmt.Sprintf("%s %s (%s) will be removed from the inventory", device.Code, device.Name, device.Type),
			"This cannot be undone",
		}
		if !ui.Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), "DELETE DEVICE", warnings) {
			return nil
		}
	}

	if err := client.DeleteDevice(cmd.Context(), code); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.NewFailureResult("Could not delete device", err).Render())
		return errors.New(gateway.ServerMessage(err, form.FallbackMessage))
	}

	logging.LogUserAction("delete", zap.String("code", code))
	fmt.Fprintln(cmd.OutOrStdout(), ui.NewSuccessResult("device deleted",
		ui.Param{Key: "Code", Value: strings.TrimSpace(code)},
	).Render())
	return nil
}
