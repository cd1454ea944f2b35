package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/client"
	"github.com/yeremiapane/reservation-app/models"
	"golang.org/x/crypto/bcrypt"
)

const appName = "reservectl"

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, client.FromEnv(), os.Args[1], os.Args[2:], os.Stdout); err != nil {
		logrus.Fatalf("%s %s: %v", appName, os.Args[1], err)
	}
}

func run(ctx context.Context, c *client.Client, command string, args []string, out io.Writer) error {
	switch command {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		date := fs.String("date", time.Now().Format(models.DateLayout), "reservation date YYYY-MM-DD")
		if err := fs.Parse(args); err != nil {
			return err
		}
		reservations, err := c.ListReservations(ctx, *date)
		if err != nil {
			return err
		}
		return printJSON(out, reservations)

	case "search":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s search <mobile_number>", appName)
		}
		reservations, err := c.SearchReservations(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(out, reservations)

	case "create":
		fs := flag.NewFlagSet("create", flag.ContinueOnError)
		var in client.ReservationInput
		fs.StringVar(&in.FirstName, "first", "", "first name")
		fs.StringVar(&in.LastName, "last", "", "last name")
		fs.StringVar(&in.MobileNumber, "mobile", "", "mobile number")
		fs.StringVar(&in.ReservationDate, "date", "", "reservation date YYYY-MM-DD")
		fs.StringVar(&in.ReservationTime, "time", "", "reservation time HH:MM")
		fs.IntVar(&in.People, "people", 0, "party size")
		if err := fs.Parse(args); err != nil {
			return err
		}
		reservation, err := c.CreateReservation(ctx, in)
		if err != nil {
			return err
		}
		return printJSON(out, reservation)

	case "show":
		id, err := idArg("show", args, 0)
		if err != nil {
			return err
		}
		reservation, err := c.ReadReservation(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(out, reservation)

	case "cancel":
		id, err := idArg("cancel", args, 0)
		if err != nil {
			return err
		}
		reservation, err := c.CancelReservation(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(out, reservation)

	case "status":
		id, err := idArg("status", args, 0)
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return fmt.Errorf("usage: %s status <reservation_id> <booked|seated|finished|cancelled>", appName)
		}
		reservation, err := c.SetStatus(ctx, id, models.ReservationStatus(args[1]))
		if err != nil {
			return err
		}
		return printJSON(out, reservation)

	case "tables":
		tables, err := c.ListTables(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, tables)

	case "table-create":
		if len(args) != 2 {
			return fmt.Errorf("usage: %s table-create <name> <capacity>", appName)
		}
		capacity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("capacity must be a number: %w", err)
		}
		table, err := c.CreateTable(ctx, args[0], capacity)
		if err != nil {
			return err
		}
		return printJSON(out, table)

	case "seat":
		tableID, err := idArg("seat", args, 0)
		if err != nil {
			return err
		}
		reservationID, err := idArg("seat", args, 1)
		if err != nil {
			return err
		}
		table, err := c.SeatTable(ctx, tableID, reservationID)
		if err != nil {
			return err
		}
		return printJSON(out, table)

	case "finish":
		id, err := idArg("finish", args, 0)
		if err != nil {
			return err
		}
		table, err := c.FinishTable(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(out, table)

	case "hash-password":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s hash-password <password>", appName)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(hash))
		return err

	case "help", "-h", "--help":
		printUsage(out)
		return nil

	default:
		printUsage(out)
		return fmt.Errorf("unknown command %q", command)
	}
}

func idArg(command string, args []string, pos int) (uint, error) {
	if len(args) <= pos {
		return 0, fmt.Errorf("%s: missing id argument", command)
	}
	id, err := strconv.ParseUint(args[pos], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s: %q is not a valid id", command, args[pos])
	}
	return uint(id), nil
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage(out io.Writer) {
	fmt.Fprintf(out, `%s - reservation desk from the terminal

Usage:
  %s <command> [arguments]

Commands:
  list [-date YYYY-MM-DD]              Open reservations for a day
  search <mobile_number>               Reservations matching a phone number
  create -first -last -mobile -date -time -people
  show <reservation_id>                One reservation
  cancel <reservation_id>              Cancel a reservation
  status <reservation_id> <status>     Change a reservation status
  tables                               Every table
  table-create <name> <capacity>       Add a table
  seat <table_id> <reservation_id>     Seat a party
  finish <table_id>                    Free a table
  hash-password <password>             bcrypt hash for STAFF_PASSWORD_HASH

Environment:
  API_BASE_URL  (default %s)
  API_TOKEN     bearer token when staff auth is enabled
`, appName, appName, client.DefaultBaseURL)
}
