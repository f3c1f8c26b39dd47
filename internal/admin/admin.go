// Package admin implements the operator commands of the profiles service.
// It is the only way to create a superuser or to deactivate an account.
//
//	admin createsuperuser [-email e] [-name n]
//	admin changepassword <email>
//	admin deactivate <email>
//	admin activate <email>
//
// Missing values are prompted for; passwords are always read from the
// terminal without echo and entered twice.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/profiles/internal/flagx"
	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server/models"
)

var (
	ErrUsage       = errors.New("usage: admin <createsuperuser|changepassword|deactivate|activate> [email]")
	ErrUnknownUser = errors.New("no user with that email")
)

// Identity is the part of services.IdentityService the commands need.
type Identity interface {
	CreateSuperuser(ctx context.Context, email, name, password string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, bool, error)
	SetPassword(ctx context.Context, userID, password string) error
	SetActive(ctx context.Context, userID string, active bool) error
}

type Command struct {
	identity Identity
	reader   *bufio.Reader
	out      io.Writer
	logger   logging.Logger
}

func New(identity Identity, in io.Reader, out io.Writer, logger logging.Logger) *Command {
	return &Command{
		identity: identity,
		reader:   bufio.NewReader(in),
		out:      out,
		logger:   logger.With("module", "admin"),
	}
}

// Run executes the subcommand named by args[0]. Flags that belong to the
// configuration may follow; they are ignored here.
func (c *Command) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "createsuperuser":
		return c.createSuperuser(ctx, args[1:])
	case "changepassword":
		return c.changePassword(ctx, args[1:])
	case "deactivate":
		return c.setActive(ctx, args[1:], false)
	case "activate":
		return c.setActive(ctx, args[1:], true)
	default:
		return ErrUsage
	}
}

func (c *Command) createSuperuser(ctx context.Context, args []string) error {
	var email, name string

	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&email, "email", "", "email address")
	fs.StringVar(&name, "name", "", "display name")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-name"})); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	var err error
	if email == "" {
		if email, err = getText(c.reader, "Email", c.out); err != nil {
			return err
		}
	}
	if name == "" {
		if name, err = getText(c.reader, "Name", c.out); err != nil {
			return err
		}
	}
	password, err := getNewPassword(c.out)
	if err != nil {
		return err
	}

	u, err := c.identity.CreateSuperuser(ctx, email, name, password)
	if err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}

	c.logger.Info(ctx, "superuser created", "user_id", u.ID)
	fmt.Fprintf(c.out, "Superuser created: %s (%s)\n", u.Email, u.ID)
	return nil
}

func (c *Command) changePassword(ctx context.Context, args []string) error {
	u, err := c.lookup(ctx, args)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Changing password for %s\n", u.Email)
	password, err := getNewPassword(c.out)
	if err != nil {
		return err
	}
	if err := c.identity.SetPassword(ctx, u.ID, password); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	fmt.Fprintln(c.out, "Password changed.")
	return nil
}

func (c *Command) setActive(ctx context.Context, args []string, active bool) error {
	u, err := c.lookup(ctx, args)
	if err != nil {
		return err
	}
	if err := c.identity.SetActive(ctx, u.ID, active); err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	fmt.Fprintf(c.out, "User %s %s.\n", u.Email, state)
	return nil
}

// lookup finds the user named by the first positional argument, prompting
// when there is none.
func (c *Command) lookup(ctx context.Context, args []string) (*models.User, error) {
	var email string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		email = args[0]
	} else {
		var err error
		if email, err = getText(c.reader, "Email", c.out); err != nil {
			return nil, err
		}
	}

	u, ok, err := c.identity.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownUser
	}
	return u, nil
}
