package task

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/cli"
	"github.com/thenoetrevino/tablo/internal/models"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
	"github.com/thenoetrevino/tablo/internal/types"
)

// CoverCmd returns the task cover parent command
func CoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Manage task cover images",
	}

	cmd.AddCommand(coverSetCmd())
	cmd.AddCommand(coverClearCmd())

	return cmd
}

func coverSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id> <file>",
		Short: "Set the cover image of a task",
		Long: `Store an image file as the cover of a task, replacing any previous cover.
The media type is taken from --type, then the file extension, then sniffed
from the content.`,
		Args: cobra.ExactArgs(2),
		RunE: runCoverSet,
	}

	cmd.Flags().String("type", "", "Media type, e.g. image/png")
	cli.AddOutputFlags(cmd)

	return cmd
}

func coverClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear <id>",
		Short: "Remove the cover image of a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runCoverClear,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCoverSet(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	mediaType, _ := cmd.Flags().GetString("type")

	cover, err := readCover(args[1], mediaType)
	if err != nil {
		return formatter.Fail(err)
	}

	return updateCover(cmd, formatter, types.TaskID(args[0]), cover)
}

func runCoverClear(cmd *cobra.Command, args []string) error {
	return updateCover(cmd, cli.NewFormatter(cmd), types.TaskID(args[0]), nil)
}

func updateCover(cmd *cobra.Command, formatter *cli.OutputFormatter, taskID types.TaskID, cover *models.CoverPayload) error {
	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cliInstance.CloseQuietly()

	task, err := cliInstance.App.TaskService.UpdateTask(cmd.Context(), taskservice.UpdateTaskRequest{
		TaskID:   taskID,
		CoverSet: true,
		Cover:    cover,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return formatter.Println(task.ID.String())
	}
	if formatter.JSON {
		return formatter.Success(map[string]any{"task_id": task.ID, "has_cover": task.HasCover()})
	}

	if cover == nil {
		_, err = fmt.Fprintf(formatter.Out, "✓ Cover of task %s removed\n", task.ID)
	} else {
		_, err = fmt.Fprintf(formatter.Out, "✓ Cover of task %s set (%s)\n", task.ID, coverSummary(task.CoverImage))
	}
	return err
}

// readCover loads an image file. An unknown media type is left empty so the
// blob store sniffs it.
func readCover(path, mediaType string) (*models.CoverPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cli.Exit(cli.ExitDataErr, fmt.Errorf("failed to read cover: %w", err))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", blobstore.ErrEmptyCover, path)
	}
	if mediaType == "" {
		mediaType = mime.TypeByExtension(filepath.Ext(path))
	}
	return &models.CoverPayload{MediaType: mediaType, Data: data}, nil
}
