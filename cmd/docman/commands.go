package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"go-docman-client/internal/credential"
)

func newHeartbeatCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	var connection bool

	cmd := &cobra.Command{
		Use:   "heartbeat",
		Short: "Print the API server time, or its connection-string name with --connection.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := opts.register(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			if connection {
				resp, err := services.Heartbeat.GetConnectionStringName(cmd.Context())
				return printEnvelope(stdout, resp, err)
			}
			resp, err := services.Heartbeat.GetServerTime(cmd.Context())
			return printEnvelope(stdout, resp, err)
		},
	}

	cmd.Flags().BoolVar(&connection, "connection", false, "print the active connection-string name")
	return cmd
}

func newFilesCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Read and delete file records.",
	}

	var includeDeleted bool
	var folder string
	list := &cobra.Command{
		Use:   "list",
		Short: "List files, optionally within one folder.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var folderID *uuid.UUID
			if folder != "" {
				id, err := uuid.Parse(folder)
				if err != nil {
					return fmt.Errorf("invalid --folder: %w", err)
				}
				folderID = &id
			}

			services, err := opts.register(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			var deleted *bool
			if cmd.Flags().Changed("include-deleted") {
				deleted = &includeDeleted
			}
			resp, err := services.Files.List(cmd.Context(), deleted, folderID)
			return printEnvelope(stdout, resp, err)
		},
	}
	list.Flags().BoolVar(&includeDeleted, "include-deleted", false, "include soft-deleted files")
	list.Flags().StringVar(&folder, "folder", "", "restrict to this folder id")

	get := &cobra.Command{
		Use:   "get <id> | get --claim <number> <name>",
		Short: "Fetch one file by id, or by claim number and name.",
		Args:  cobra.ExactArgs(1),
	}
	var claim string
	get.Flags().StringVar(&claim, "claim", "", "claim number; the argument is then the file name")
	get.RunE = func(cmd *cobra.Command, args []string) error {
		services, err := opts.register(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		if claim != "" {
			resp, err := services.Files.GetByNameAndClaimNumber(cmd.Context(), args[0], claim)
			return printEnvelope(stdout, resp, err)
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid file id: %w", err)
		}
		resp, err := services.Files.GetByID(cmd.Context(), id)
		return printEnvelope(stdout, resp, err)
	}

	virtualPath := &cobra.Command{
		Use:   "virtual-path <id>",
		Short: "Print the folder path of a file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid file id: %w", err)
			}

			services, err := opts.register(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			resp, err := services.Files.GetVirtualPath(cmd.Context(), id)
			return printEnvelope(stdout, resp, err)
		},
	}

	var modifiedBy string
	var physical bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft delete a file, or remove it with --physical.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid file id: %w", err)
			}
			if !physical && strings.TrimSpace(modifiedBy) == "" {
				return fmt.Errorf("--modified-by is required for a soft delete")
			}

			services, err := opts.register(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			if physical {
				resp, err := services.Files.PhysicalDelete(cmd.Context(), id)
				return printEnvelope(stdout, resp, err)
			}
			resp, err := services.Files.Delete(cmd.Context(), id, modifiedBy)
			return printEnvelope(stdout, resp, err)
		},
	}
	del.Flags().StringVar(&modifiedBy, "modified-by", "", "user recorded on the soft delete")
	del.Flags().BoolVar(&physical, "physical", false, "remove the record instead of flagging it")

	cmd.AddCommand(list, get, virtualPath, del)
	return cmd
}

func newFoldersCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Read folder records.",
	}

	var includeDeleted bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List folders.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := opts.register(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			var deleted *bool
			if cmd.Flags().Changed("include-deleted") {
				deleted = &includeDeleted
			}
			resp, err := services.Folders.List(cmd.Context(), deleted)
			return printEnvelope(stdout, resp, err)
		},
	}
	list.Flags().BoolVar(&includeDeleted, "include-deleted", false, "include soft-deleted folders")

	var claim string
	get := &cobra.Command{
		Use:   "get <id> | get --claim <number>",
		Short: "Fetch a folder by id, or the folders of a claim.",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := opts.register(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			if claim != "" {
				resp, err := services.Folders.GetByClaimNumber(cmd.Context(), claim)
				return printEnvelope(stdout, resp, err)
			}
			if len(args) != 1 {
				return fmt.Errorf("a folder id or --claim is required")
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid folder id: %w", err)
			}
			resp, err := services.Folders.GetByID(cmd.Context(), id)
			return printEnvelope(stdout, resp, err)
		},
	}
	get.Flags().StringVar(&claim, "claim", "", "list folders holding files of this claim number")

	children := &cobra.Command{
		Use:   "children <id>",
		Short: "List the child folders of a folder.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid folder id: %w", err)
			}

			services, err := opts.register(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			resp, err := services.Folders.GetByParentID(cmd.Context(), id)
			return printEnvelope(stdout, resp, err)
		},
	}

	cmd.AddCommand(list, get, children)
	return cmd
}

func newEncryptPasswordCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt-password",
		Short: "Encrypt a certificate password read from stdin with $DOCMAN_DECRYPTION_KEY.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cipher, err := credential.NewAESDecrypter(os.Getenv("DOCMAN_DECRYPTION_KEY"))
			if err != nil {
				return err
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && err != io.EOF {
				return fmt.Errorf("read password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return fmt.Errorf("empty password")
			}

			sealed, err := cipher.Encrypt(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout, sealed)
			return err
		},
	}
}
