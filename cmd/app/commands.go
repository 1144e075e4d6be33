package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/fennhauser/werkbank/internal"
	"github.com/fennhauser/werkbank/internal/project"
	"github.com/fennhauser/werkbank/internal/storage"
)

// setup loads configuration and builds the storage engine with a
// verified directory layout.
func setup(cmd *cli.Command) (*internal.Config, *internal.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := internal.SetupStorage(cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

// selectedDir maps the shared listing flags onto a storage directory.
func selectedDir(cmd *cli.Command) storage.StorageDir {
	switch {
	case cmd.Bool("all"):
		return storage.DirAll
	case cmd.Int("archive") != 0:
		return storage.DirArchive(int(cmd.Int("archive")))
	case cmd.Int("year") != 0:
		return storage.DirYear(int(cmd.Int("year")))
	default:
		return storage.DirWorking
	}
}

func listingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Include every archive year"},
		&cli.IntFlag{Name: "archive", Usage: "List a single archive year"},
		&cli.IntFlag{Name: "year", Usage: "List everything belonging to a year"},
		&cli.BoolFlag{Name: "paths", Aliases: []string{"p"}, Usage: "Print record directories instead of a listing"},
	}
}

func printProjects(projects storage.ProjectList[*project.Project], pathsOnly bool) {
	projects.SortByIndex()
	for _, p := range projects {
		if pathsOnly {
			fmt.Println(p.Dir())
			continue
		}
		index, ok := p.Index()
		if !ok {
			index = "-"
		}
		year := "----"
		if y, ok := p.Year(); ok {
			year = strconv.Itoa(y)
		}
		fmt.Printf("%-8s %-6s %-32s %s\n", index, year, p.Name(), p.GitStatus())
	}
}

// confirm asks an interactive yes/no question. yes short-circuits it,
// for scripted use.
func confirm(title string, yes bool) bool {
	if yes {
		return true
	}
	ok := false
	if err := huh.NewConfirm().Title(title).Value(&ok).Run(); err != nil {
		return false
	}
	return ok
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the storage directory layout",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := internal.SetupStorageUnchecked(cfg, nil)
			if err != nil {
				return err
			}
			if err := store.CreateDirs(); err != nil {
				return err
			}
			fmt.Printf("initialized storage at %s\n", store.RootDir())
			return nil
		},
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a project from a template",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Value: "default", Usage: "Template name"},
			&cli.StringSliceFlag{Name: "fill", Usage: "Template placeholder as key=value, repeatable"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("a project name is required")
			}
			_, store, err := setup(cmd)
			if err != nil {
				return err
			}
			fill, err := parseFill(cmd.StringSlice("fill"))
			if err != nil {
				return err
			}
			p, err := store.CreateProject(name, cmd.String("template"), fill)
			if err != nil {
				return err
			}
			fmt.Println(p.File())
			return nil
		},
	}
}

func parseFill(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fill := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --fill %q, expected key=value", pair)
		}
		fill[key] = value
	}
	return fill, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List projects",
		Flags: listingFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, store, err := setup(cmd)
			if err != nil {
				return err
			}
			projects, err := store.OpenProjects(storage.SelectDir(selectedDir(cmd)))
			if err != nil {
				return err
			}
			printProjects(projects, cmd.Bool("paths"))
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search projects by name, identity, index or position (N1, N2, ...)",
		ArgsUsage: "<term>...",
		Flags:     listingFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, store, err := setup(cmd)
			if err != nil {
				return err
			}
			sel := storage.SelectDirAndSearch(selectedDir(cmd), cmd.Args().Slice()...)
			projects, err := store.OpenProjects(sel)
			if err != nil {
				return err
			}
			printProjects(projects, cmd.Bool("paths"))
			return nil
		},
	}
}

func archiveCommand() *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "Move matching working projects into the archive",
		ArgsUsage: "<term>...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Usage: "Target archive year, default is each project's own year"},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Archive projects that are not done yet"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip interactive confirmation"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("at least one search term is required")
			}
			_, store, err := setup(cmd)
			if err != nil {
				return err
			}
			force := func() bool {
				if !cmd.Bool("force") {
					return false
				}
				return confirm("Archive projects that are not done yet?", cmd.Bool("yes"))
			}
			moved, err := store.ArchiveProjectsIf(cmd.Args().Slice(), int(cmd.Int("year")), force)
			if err != nil {
				return err
			}
			printMoves(moved)
			return nil
		},
	}
}

func unarchiveCommand() *cli.Command {
	return &cli.Command{
		Name:      "unarchive",
		Usage:     "Move archived projects back into the working directory",
		ArgsUsage: "<year> <term>...",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: unarchive <year> <term>...")
			}
			year, err := strconv.Atoi(cmd.Args().First())
			if err != nil {
				return fmt.Errorf("invalid year %q", cmd.Args().First())
			}
			_, store, err := setup(cmd)
			if err != nil {
				return err
			}
			moved, err := store.UnarchiveProjects(year, cmd.Args().Slice()[1:])
			if err != nil {
				return err
			}
			printMoves(moved)
			return nil
		},
	}
}

func printMoves(moved []string) {
	for i := 0; i+1 < len(moved); i += 2 {
		fmt.Printf("%s -> %s\n", moved[i], moved[i+1])
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete matching working projects",
		ArgsUsage: "<term>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip interactive confirmation"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("at least one search term is required")
			}
			_, store, err := setup(cmd)
			if err != nil {
				return err
			}
			projects, err := store.SearchProjectsAny(storage.DirWorking, cmd.Args().Slice())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				return &storage.NothingFoundError{Terms: cmd.Args().Slice()}
			}
			for _, p := range projects {
				ask := func() bool {
					return confirm(fmt.Sprintf("Delete %s?", p.ShortDesc()), cmd.Bool("yes"))
				}
				if err := store.DeleteProjectIf(p, ask); err != nil {
					return err
				}
				fmt.Printf("deleted %s\n", p.Dir())
			}
			return nil
		},
	}
}

func templatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "List available templates",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, store, err := setup(cmd)
			if err != nil {
				return err
			}
			names, err := store.ListTemplateNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func pathCommand() *cli.Command {
	return &cli.Command{
		Name:      "path",
		Usage:     "Print storage paths",
		ArgsUsage: "[storage|working|archive|templates|extras]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := internal.SetupStorageUnchecked(cfg, nil)
			if err != nil {
				return err
			}
			paths := store.Paths()
			switch cmd.Args().First() {
			case "", "storage":
				fmt.Println(paths.Storage)
			case "working":
				fmt.Println(paths.Working)
			case "archive":
				fmt.Println(paths.Archive)
			case "templates":
				fmt.Println(paths.Templates)
			case "extras":
				fmt.Println(paths.Extras)
			default:
				return fmt.Errorf("unknown path %q", cmd.Args().First())
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the read-only HTTP API with live change events",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return internal.Serve(ctx, internal.WithConfig(cfg))
		},
	}
}
