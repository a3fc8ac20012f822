package authctl

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/innovatepam/ideatracker/internal/flagx"
)

// Usage writes the command summary to w.
func Usage(w io.Writer) {
	fmt.Fprintln(w, usage)
}

const usage = `Usage: authctl <command> [flags]

Commands:
  register  -email <email> -role <role>   create an identity (password is prompted)
  verify    [-token <token>]              decode a token (read from stdin when omitted)
  attempts  -email <email> [-limit n]     show recent login attempts
  roles                                   list known roles
  help                                    show this message`

// NeedsStore reports whether args name a command that talks to the
// database. Help and usage errors can be answered without connecting.
func NeedsStore(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "register", "verify", "attempts", "roles":
		return true
	}
	return false
}

// Run executes the command named by args[0]. Server flags such as -d or -s
// may appear anywhere in args; they are consumed by config and ignored here.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		Usage(a.out)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "verify":
		return a.verify(rest)
	case "attempts":
		return a.listAttempts(ctx, rest)
	case "roles":
		return a.listRoles(ctx)
	case "help", "-h", "--help":
		Usage(a.out)
		return nil
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		return ErrUsage
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	email := fs.String("email", "", "identity email")
	role := fs.String("role", "", "role name")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-role"})); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if *email == "" {
		v, err := getSimpleText(a.reader, "Email", a.out)
		if err != nil {
			return err
		}
		*email = v
	}
	if *role == "" {
		v, err := getSimpleText(a.reader, "Role", a.out)
		if err != nil {
			return err
		}
		*role = v
	}

	pw, err := getNewPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(pw)

	res, err := a.registrar.Register(ctx, *email, string(pw), *role)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (%s) id=%s\n", res.Email, res.Role, res.IdentityID)
	return nil
}

func (a *App) verify(args []string) error {
	fs := newFlagSet("verify")
	token := fs.String("token", "", "bearer token")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-token"})); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if *token == "" {
		v, err := getSimpleText(a.reader, "Token", a.out)
		if err != nil {
			return err
		}
		*token = v
	}

	p, err := a.verifier.Verify(*token)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "subject:   %s\n", p.UserID)
	fmt.Fprintf(a.out, "email:     %s\n", p.Email)
	fmt.Fprintf(a.out, "role:      %s\n", p.Role)
	fmt.Fprintf(a.out, "authority: %s\n", p.Authority())
	fmt.Fprintf(a.out, "issued:    %s\n", p.IssuedAt.UTC().Format(time.RFC3339))
	return nil
}

func (a *App) listAttempts(ctx context.Context, args []string) error {
	fs := newFlagSet("attempts")
	email := fs.String("email", "", "identity email")
	limit := fs.Int("limit", 20, "number of records")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-limit"})); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *email == "" || *limit < 1 {
		return fmt.Errorf("%w: attempts needs -email and a positive -limit", ErrUsage)
	}

	recs, err := a.attempts.RecentAttempts(ctx, *email, *limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No attempts recorded.")
		return nil
	}
	for _, r := range recs {
		result := "failure"
		if r.Success {
			result = "success"
		}
		origin := r.Origin
		if origin == "" {
			origin = "-"
		}
		fmt.Fprintf(a.out, "%s  %-7s  %s\n", r.AttemptedAt.UTC().Format(time.RFC3339), result, origin)
	}
	return nil
}

func (a *App) listRoles(ctx context.Context) error {
	roles, err := a.roles.ListRoles(ctx)
	if err != nil {
		return err
	}
	for _, r := range roles {
		fmt.Fprintf(a.out, "%d\t%s\n", r.ID, r.Name)
	}
	return nil
}
