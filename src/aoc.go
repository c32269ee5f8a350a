package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/net/html"
	"gopkg.in/op/go-logging.v1"

	"github.com/jakzo/aoc/src/calendar"
	"github.com/jakzo/aoc/src/cli"
	logger "github.com/jakzo/aoc/src/cli/logging"
	"github.com/jakzo/aoc/src/client"
	"github.com/jakzo/aoc/src/config"
	"github.com/jakzo/aoc/src/fs"
	"github.com/jakzo/aoc/src/leaderboard"
	"github.com/jakzo/aoc/src/process"
	"github.com/jakzo/aoc/src/puzzle"
	"github.com/jakzo/aoc/src/solution"
	"github.com/jakzo/aoc/src/templates"
	"github.com/jakzo/aoc/src/watch"
)

var log = logger.Log

var opts struct {
	Usage string `usage:"aoc helps solve Advent of Code puzzles.\n\nIt sets up new days from templates, reruns your solution as you edit it, fetches puzzles, inputs and leaderboards, and submits answers."`

	Verbosity   cli.Verbosity `short:"v" long:"verbosity" default:"warning" description:"Verbosity of output (error, warning, notice, info, debug)"`
	ConfigFiles []string      `short:"c" long:"config" description:"Additional config files to read, after ~/.aocconfig and ./.aocconfig"`

	Run struct {
		Input string `short:"i" long:"input" description:"File to read the puzzle input from (default from config, normally input.txt)"`
	} `command:"run" description:"Runs the solution against the puzzle input"`

	Template struct {
		Template string `short:"t" long:"template" description:"Directory to copy the template from"`
		Language string `short:"l" long:"language" description:"Built-in or configured template to copy"`
		Args     struct {
			Output string `positional-arg-name:"output" required:"true" description:"Directory to copy the template into"`
		} `positional-args:"true" required:"true"`
	} `command:"template" description:"Copies a solution template into a directory, without overwriting anything"`

	Templates struct{} `command:"templates" description:"Lists the available templates"`

	Start struct {
		Day  cli.Day  `short:"d" long:"day" description:"Day to start (default today)"`
		Year cli.Year `short:"y" long:"year" description:"Year of the puzzle, used to download the input (default this year)"`
		Args struct {
			Language string `positional-arg-name:"language" description:"Template to start from (default from config, normally go)"`
		} `positional-args:"true"`
	} `command:"start" description:"Sets up a day's solution from a template and reruns it whenever it changes"`

	Promote struct {
		Part cli.Part `short:"p" long:"part" required:"true" description:"Part that the work in progress solves"`
		Dir  string   `long:"dir" default:"." description:"Directory containing the work in progress"`
	} `command:"promote" description:"Copies wip files to part1 / part2 once they're correct"`

	Countdown struct {
		Margin cli.Duration `short:"m" long:"margin" default:"23h" description:"Count down to a puzzle that started less than this long ago instead of the next one"`
	} `command:"countdown" description:"Counts down to the start of the next puzzle"`

	Input struct {
		Year   cli.Year `short:"y" long:"year" description:"Year of the puzzle (default this year)"`
		Day    cli.Day  `short:"d" long:"day" description:"Day of the puzzle (default today)"`
		Output string   `short:"o" long:"output" description:"File to write the input to (default stdout)"`
	} `command:"input" description:"Downloads the puzzle input"`

	Leaderboard struct {
		Year cli.Year `short:"y" long:"year" description:"Year of the leaderboard (default this year)"`
		Args struct {
			ID string `positional-arg-name:"id" required:"true" description:"ID of the private leaderboard"`
		} `positional-args:"true" required:"true"`
	} `command:"leaderboard" description:"Prints the solve times of a private leaderboard as CSV"`

	Login struct{} `command:"login" description:"Stores your session token in ~/.aocconfig"`

	Description struct {
		Year cli.Year `short:"y" long:"year" description:"Year of the puzzle (default this year)"`
		Day  cli.Day  `short:"d" long:"day" description:"Day of the puzzle (default today)"`
		Part cli.Part `short:"p" long:"part" description:"Part to print (default every part unlocked so far)"`
	} `command:"description" description:"Prints the puzzle description"`

	Submit struct {
		Year cli.Year `short:"y" long:"year" description:"Year of the puzzle (default this year)"`
		Day  cli.Day  `short:"d" long:"day" description:"Day of the puzzle (default today)"`
		Part cli.Part `short:"p" long:"part" required:"true" description:"Part the answer is for"`
		Args struct {
			Answer string `positional-arg-name:"answer" description:"The answer (default read from stdin, or prompted for)"`
		} `positional-args:"true"`
	} `command:"submit" description:"Submits an answer and prints the response"`

	Solve struct {
		Year cli.Year `short:"y" long:"year" description:"Year of the puzzle (default this year)"`
		Day  cli.Day  `short:"d" long:"day" description:"Day of the puzzle (default today)"`
	} `command:"solve" description:"Counts down to a puzzle, prints it and downloads its input, then submits answers as you enter them"`
}

// Definitions of what we do for each command.
// Functions are called after args are parsed and return true for success.
var commandFunctions = map[string]func(ctx context.Context, cfg *config.Configuration) bool{
	"run": func(ctx context.Context, cfg *config.Configuration) bool {
		input := opts.Run.Input
		if input == "" {
			input = cfg.Aoc.InputFile
		}
		return runSolution(os.Stdout, os.Stderr, input)
	},
	"template": func(ctx context.Context, cfg *config.Configuration) bool {
		name, err := templateName(opts.Template.Template, opts.Template.Language, cfg)
		if err != nil {
			log.Error("%s", err)
			return false
		}
		_, err = copyTemplate(name, opts.Template.Args.Output, cfg)
		return check(err)
	},
	"templates": func(ctx context.Context, cfg *config.Configuration) bool {
		for _, name := range templates.Names(cfg.Template) {
			fmt.Println(name)
		}
		return true
	},
	"start": func(ctx context.Context, cfg *config.Configuration) bool {
		return check(start(ctx, cfg, time.Now()))
	},
	"promote": func(ctx context.Context, cfg *config.Configuration) bool {
		promoted, err := templates.Promote(opts.Promote.Dir, int(opts.Promote.Part))
		for _, file := range promoted {
			fmt.Printf("Promoted %s\n", filepath.Join(opts.Promote.Dir, file))
		}
		if len(promoted) == 0 && err == nil {
			log.Warning("No wip files found in %s", opts.Promote.Dir)
		}
		return check(err)
	},
	"countdown": func(ctx context.Context, cfg *config.Configuration) bool {
		next := calendar.CurrentChallengeStart(time.Now(), time.Duration(opts.Countdown.Margin))
		return check(calendar.Countdown(ctx, os.Stdout, next, calendar.RealClock, cli.StdOutIsATerminal))
	},
	"input": func(ctx context.Context, cfg *config.Configuration) bool {
		now := time.Now()
		year := resolveYear(opts.Input.Year, cfg, now)
		day, err := resolveDay(opts.Input.Day, now)
		if err != nil {
			log.Error("%s", err)
			return false
		}
		return check(downloadInput(ctx, cfg, year, day, opts.Input.Output))
	},
	"leaderboard": func(ctx context.Context, cfg *config.Configuration) bool {
		year := resolveYear(opts.Leaderboard.Year, cfg, time.Now())
		return check(printLeaderboard(ctx, os.Stdout, cfg, year, opts.Leaderboard.Args.ID))
	},
	"login": func(ctx context.Context, cfg *config.Configuration) bool {
		return check(login(ctx, os.Stdout, cfg, config.UserConfigFile(), cli.PromptYN, cli.PromptSecret))
	},
	"description": func(ctx context.Context, cfg *config.Configuration) bool {
		now := time.Now()
		year := resolveYear(opts.Description.Year, cfg, now)
		day, err := resolveDay(opts.Description.Day, now)
		if err != nil {
			log.Error("%s", err)
			return false
		}
		return check(printDescription(ctx, os.Stdout, client.FromConfig(cfg), year, day, int(opts.Description.Part), cli.StdOutIsATerminal))
	},
	"submit": func(ctx context.Context, cfg *config.Configuration) bool {
		now := time.Now()
		year := resolveYear(opts.Submit.Year, cfg, now)
		day, err := resolveDay(opts.Submit.Day, now)
		if err != nil {
			log.Error("%s", err)
			return false
		} else if err := requireSession(cfg); err != nil {
			log.Error("%s", err)
			return false
		}
		part := int(opts.Submit.Part)
		answer, err := readAnswer(opts.Submit.Args.Answer, os.Stdin, cli.IsATerminal(os.Stdin), part)
		if err != nil {
			log.Error("%s", err)
			return false
		}
		feedback, err := submitAnswer(ctx, os.Stdout, client.FromConfig(cfg), year, day, part, answer, cli.StdOutIsATerminal)
		return check(err) && feedback.Correct
	},
	"solve": func(ctx context.Context, cfg *config.Configuration) bool {
		now := time.Now()
		year := resolveYear(opts.Solve.Year, cfg, now)
		day, err := resolveDay(opts.Solve.Day, now)
		if err != nil {
			log.Error("%s", err)
			return false
		}
		ask := func(part int) (string, error) {
			return cli.Prompt(fmt.Sprintf("Part %d answer", part))
		}
		return check(solve(ctx, os.Stdout, cfg, year, day, calendar.RealClock, cli.StdOutIsATerminal, ask))
	},
}

// check logs the given error, if there is one, and returns true if there wasn't.
func check(err error) bool {
	if err != nil {
		log.Error("%s", err)
		return false
	}
	return true
}

// runSolution runs the solution on the given input file. Failures are reported as a plain
// message on stderr so nothing but the result ever appears on stdout.
func runSolution(stdout, stderr io.Writer, input string) bool {
	if err := solution.Run(stdout, input); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return false
	}
	return true
}

// templateName returns the template to use given the --template and --language flags.
func templateName(dir, language string, cfg *config.Configuration) (string, error) {
	if dir != "" && language != "" {
		return "", errors.New("can't pass both --template and --language")
	} else if dir != "" {
		if !fs.IsDirectory(dir) {
			return "", fmt.Errorf("template directory %s does not exist", dir)
		}
		return dir, nil
	} else if language != "" {
		return language, nil
	}
	return cfg.Start.Language, nil
}

// copyTemplate copies the named template into the given directory and reports what it wrote.
func copyTemplate(name, dest string, cfg *config.Configuration) (*templates.Template, error) {
	t, err := templates.Lookup(name, cfg.Template)
	if err != nil {
		return nil, err
	}
	written, err := templates.Copy(t, dest)
	for _, file := range written {
		log.Notice("Created %s", filepath.Join(dest, file))
	}
	if len(written) == 0 && err == nil {
		log.Info("All files from template %s already exist in %s", t.Name, dest)
	}
	return t, err
}

// resolveYear returns the year from the flag if given, otherwise from config, otherwise the current one.
func resolveYear(flag cli.Year, cfg *config.Configuration, now time.Time) int {
	if flag != 0 {
		return int(flag)
	} else if cfg.Aoc.Year != 0 {
		return cfg.Aoc.Year
	}
	return calendar.CurrentYear(now)
}

// resolveDay returns the day from the flag if given, otherwise today's puzzle.
func resolveDay(flag cli.Day, now time.Time) (int, error) {
	if flag != 0 {
		return int(flag), nil
	}
	return calendar.CurrentDay(now)
}

// start sets up a day's directory from its template then runs and watches it until interrupted.
func start(ctx context.Context, cfg *config.Configuration, now time.Time) error {
	day, err := resolveDay(opts.Start.Day, now)
	if err != nil {
		return err
	}
	year := resolveYear(opts.Start.Year, cfg, now)
	language := opts.Start.Args.Language
	if language == "" {
		language = cfg.Start.Language
	}
	dir := cfg.DirForDay(day)
	t, err := copyTemplate(language, dir, cfg)
	if err != nil {
		return err
	}
	inputFile := filepath.Join(dir, cfg.Aoc.InputFile)
	if cfg.Aoc.Session != "" && !fs.PathExists(inputFile) && !now.Before(calendar.StartOf(year, day)) {
		if err := downloadInput(ctx, cfg, year, day, inputFile); err != nil {
			log.Warning("Couldn't download input: %s", err)
		}
	}
	if !t.HasCommands() {
		return fmt.Errorf("template %s has no commands to run it; add some to its [template] section in %s", t.Name, config.FileName)
	}
	cmds, cleanup, err := t.Commands(dir)
	defer cleanup()
	if err != nil {
		return err
	}
	files := cfg.Start.Watch
	if len(files) == 0 {
		if files, err = t.Files(); err != nil {
			return err
		}
	}
	return watch.Watch(ctx, dir, files, process.NewRunner(), cmds)
}

// downloadInput fetches the input for the given day and writes it to the given file, or stdout if it's empty.
func downloadInput(ctx context.Context, cfg *config.Configuration, year, day int, output string) error {
	if err := calendar.Validate(day, year); err != nil {
		return err
	} else if err := requireSession(cfg); err != nil {
		return err
	}
	input, err := client.FromConfig(cfg).Input(ctx, year, day)
	if err != nil {
		return err
	} else if output == "" || output == "-" {
		_, err := os.Stdout.Write(input)
		return err
	}
	log.Notice("Writing %s of input to %s", cli.Bytes(len(input)), output)
	return fs.WriteFile(bytes.NewReader(input), output, 0644)
}

// requireSession returns an error if there's no session token to make requests with.
func requireSession(cfg *config.Configuration) error {
	if cfg.Aoc.Session == "" {
		return fmt.Errorf("no session token configured; run aoc login or set $%s", config.SessionEnvVar)
	}
	return nil
}

// printDescription prints one part of a puzzle's description, or every part unlocked so far if part is 0.
func printDescription(ctx context.Context, w io.Writer, c *client.Client, year, day, part int, colour bool) error {
	if err := calendar.Validate(day, year); err != nil {
		return err
	}
	parts, err := c.Description(ctx, year, day)
	if err != nil {
		return err
	} else if part != 0 {
		p, err := puzzle.Part(parts, part)
		if err != nil {
			return err
		}
		parts = []*html.Node{p}
	}
	for _, p := range parts {
		if _, err := fmt.Fprintf(w, "%s\n\n", puzzle.Text(p, colour)); err != nil {
			return err
		}
	}
	return nil
}

// readAnswer returns the answer to submit: the argument if there is one, otherwise whatever's piped
// to stdin, otherwise what the user types at a prompt.
func readAnswer(arg string, stdin io.Reader, interactive bool, part int) (string, error) {
	if arg != "" {
		return arg, nil
	} else if interactive {
		return cli.Prompt(fmt.Sprintf("Part %d answer", part))
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	} else if answer := strings.TrimSpace(string(b)); answer != "" {
		return answer, nil
	}
	return "", errors.New("no answer given")
}

// submitAnswer submits an answer and prints what the server said about it.
func submitAnswer(ctx context.Context, w io.Writer, c *client.Client, year, day, part int, answer string, colour bool) (*puzzle.Feedback, error) {
	if err := calendar.Validate(day, year); err != nil {
		return nil, err
	}
	log.Notice("Submitting %s for part %d", answer, part)
	feedback, err := c.Submit(ctx, year, day, part, answer)
	if err != nil {
		return nil, err
	}
	_, err = fmt.Fprintf(w, "%s\n\n", feedback.Text(colour))
	return feedback, err
}

// solve takes a puzzle from start to finish. It waits for the puzzle to unlock, prints it and
// downloads the input, then submits answers until both parts are solved, promoting the wip files
// each time one is right.
func solve(ctx context.Context, w io.Writer, cfg *config.Configuration, year, day int, clock calendar.Clock, interactive bool, ask func(part int) (string, error)) error {
	if err := calendar.Validate(day, year); err != nil {
		return err
	} else if err := requireSession(cfg); err != nil {
		return err
	}
	c := client.FromConfig(cfg)
	if valid, err := c.ValidToken(ctx); err != nil {
		return err
	} else if !valid {
		return errors.New("session token is not valid; run aoc login to set a new one")
	}
	if err := calendar.Countdown(ctx, w, calendar.StartOf(year, day), clock, interactive); err != nil {
		return err
	}
	part := 1
	if err := printDescription(ctx, w, c, year, day, part, interactive); err != nil {
		return err
	}
	dir := cfg.DirForDay(day)
	if inputFile := filepath.Join(dir, cfg.Aoc.InputFile); !fs.PathExists(inputFile) {
		if err := downloadInput(ctx, cfg, year, day, inputFile); err != nil {
			return err
		}
	}
	for {
		answer, err := ask(part)
		if err != nil {
			return err
		}
		feedback, err := submitAnswer(ctx, w, c, year, day, part, answer, interactive)
		if err != nil {
			return err
		} else if !feedback.Correct {
			continue
		}
		promoted, err := templates.Promote(dir, part)
		if err != nil {
			log.Warning("Failed to promote wip files: %s", err)
		}
		for _, file := range promoted {
			log.Notice("Promoted %s", filepath.Join(dir, file))
		}
		if feedback.Done {
			return nil
		}
		part++
		if err := printDescription(ctx, w, c, year, day, part, interactive); err != nil {
			return err
		}
	}
}

// printLeaderboard writes the times for a private leaderboard as CSV.
func printLeaderboard(ctx context.Context, w io.Writer, cfg *config.Configuration, year int, id string) error {
	if err := calendar.Validate(1, year); err != nil {
		return err
	}
	lb, err := client.FromConfig(cfg).PrivateLeaderboard(ctx, year, id)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(leaderboard.CSV(lb, year)); err != nil {
		return err
	}
	return cw.Error()
}

// login prompts for a session token until a valid one is given, then saves it to filename.
// If there's already a valid one it asks before replacing it.
func login(ctx context.Context, w io.Writer, cfg *config.Configuration, filename string, confirm func(msg string, defaultYes bool) bool, ask func(msg string) (string, error)) error {
	if cfg.Aoc.Session != "" {
		valid, err := client.New(cfg.Aoc.BaseURL, cfg.Aoc.Session).ValidToken(ctx)
		if err == nil && valid && !confirm("You're already logged in. Replace your session token", false) {
			return nil
		}
	}
	msg := "Enter your session token (use browser dev tools and find the session cookie)"
	for {
		token, err := ask(msg)
		if err != nil {
			return err
		}
		valid, err := client.New(cfg.Aoc.BaseURL, token).ValidToken(ctx)
		if err != nil {
			return err
		} else if valid {
			if err := config.SaveSession(filename, token); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Session token saved to %s\n", filename)
			return err
		}
		msg = "Token invalid. Please try again"
	}
}

func main() {
	command := cli.ParseFlagsOrDie("aoc", &opts)
	cli.InitLogging(opts.Verbosity)

	cfg, err := config.ReadConfigFiles(append(config.DefaultConfigFiles(), opts.ConfigFiles...))
	if err != nil {
		log.Fatalf("Error reading config file: %s", err)
	}
	if log.IsEnabledFor(logging.DEBUG) {
		log.Debug("Configuration: %s", spew.Sdump(cfg.Redacted()))
	}
	if commandFunctions[command](cli.Context(), cfg) {
		os.Exit(0)
	}
	os.Exit(1)
}
