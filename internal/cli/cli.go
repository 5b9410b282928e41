// Package cli implements the hbnb console: one cobra command per operation
// over the resource service.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
)

var (
	ErrClassMissing = errors.New("** class name missing **")
	ErrNoClass      = errors.New("** class doesn't exist **")
	ErrIDMissing    = errors.New("** instance id missing **")
	ErrNoInstance   = errors.New("** no instance found **")
	ErrAttrMissing  = errors.New("** attribute name missing **")
	ErrValueMissing = errors.New("** value missing **")
)

// NewRootCmd builds the console command tree bound to svc.
func NewRootCmd(svc ports.ResourceService) *cobra.Command {
	root := &cobra.Command{
		Use:           "hbnb",
		Short:         "hbnb is the administration console of the HBnB store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		createCmd(svc),
		showCmd(svc),
		allCmd(svc),
		updateCmd(svc),
		destroyCmd(svc),
		countCmd(svc),
	)
	return root
}

func createCmd(svc ports.ResourceService) *cobra.Command {
	return &cobra.Command{
		Use:   "create <class> [key=value ...]",
		Short: "Create an object and print its id",
		Long: `Create an object of the given class. Attributes are passed as key=value;
quoted values may use underscores for spaces: name="My_little_house".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindArg(args)
			if err != nil {
				return err
			}
			res, err := svc.Create(cmd.Context(), ports.CreateInput{Kind: kind, Payload: parseParams(args[1:])})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Object.Meta().ID)
			return nil
		},
	}
}

func showCmd(svc ports.ResourceService) *cobra.Command {
	return &cobra.Command{
		Use:   "show <class> <id>",
		Short: "Print one object",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := kindAndID(args)
			if err != nil {
				return err
			}
			obj, err := svc.Get(cmd.Context(), kind, id)
			if err != nil {
				return notFound(err)
			}
			return printJSON(cmd.OutOrStdout(), obj.ToMap())
		},
	}
}

func allCmd(svc ports.ResourceService) *cobra.Command {
	return &cobra.Command{
		Use:   "all [class]",
		Short: "Print every object, optionally of one class",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := domain.Kinds()
			if len(args) > 0 {
				kind, err := kindArg(args)
				if err != nil {
					return err
				}
				kinds = []domain.Kind{kind}
			}
			out := make([]map[string]any, 0)
			for _, kind := range kinds {
				objs, err := svc.List(cmd.Context(), kind)
				if err != nil {
					return err
				}
				for _, o := range objs {
					out = append(out, o.ToMap())
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func updateCmd(svc ports.ResourceService) *cobra.Command {
	return &cobra.Command{
		Use:   "update <class> <id> <attribute> <value>",
		Short: "Set one attribute of an object",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := kindAndID(args)
			if err != nil {
				return err
			}
			if len(args) < 3 {
				return ErrAttrMissing
			}
			if len(args) < 4 {
				return ErrValueMissing
			}
			if _, err := svc.Get(cmd.Context(), kind, id); err != nil {
				return notFound(err)
			}
			_, err = svc.Update(cmd.Context(), kind, id, map[string]any{args[2]: unquote(args[3])})
			return err
		},
	}
}

func destroyCmd(svc ports.ResourceService) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy <class> <id>",
		Short: "Delete an object",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := kindAndID(args)
			if err != nil {
				return err
			}
			return notFound(svc.Delete(cmd.Context(), kind, id))
		},
	}
}

func countCmd(svc ports.ResourceService) *cobra.Command {
	return &cobra.Command{
		Use:   "count <class>",
		Short: "Print the number of objects of a class",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindArg(args)
			if err != nil {
				return err
			}
			counts, err := svc.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), counts[kind])
			return nil
		},
	}
}

func kindArg(args []string) (domain.Kind, error) {
	if len(args) == 0 {
		return "", ErrClassMissing
	}
	kind, ok := domain.KindForResource(args[0])
	if !ok {
		return "", ErrNoClass
	}
	return kind, nil
}

func kindAndID(args []string) (domain.Kind, string, error) {
	kind, err := kindArg(args)
	if err != nil {
		return "", "", err
	}
	if len(args) < 2 {
		return "", "", ErrIDMissing
	}
	return kind, args[1], nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrNoInstance
	}
	return err
}

// parseParams turns key=value arguments into a payload. Malformed pairs are
// skipped.
func parseParams(args []string) map[string]any {
	payload := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" || value == "" {
			continue
		}
		payload[key] = unquote(value)
	}
	return payload
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		if s, err := strconv.Unquote(value); err == nil {
			value = s
		} else {
			value = value[1 : len(value)-1]
		}
		return strings.ReplaceAll(value, "_", " ")
	}
	return value
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
