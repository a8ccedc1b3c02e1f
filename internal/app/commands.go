package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/omniwatch/cinema-client/internal/api"
	"github.com/omniwatch/cinema-client/internal/checkout"
	"github.com/omniwatch/cinema-client/internal/domain"
	"github.com/omniwatch/cinema-client/internal/payment"
	"github.com/omniwatch/cinema-client/internal/pricing"
	"github.com/omniwatch/cinema-client/internal/seatmap"
	appvalidator "github.com/omniwatch/cinema-client/internal/validator"
	"github.com/omniwatch/cinema-client/internal/view"
	"github.com/shopspring/decimal"
)

const usage = `Usage: omniwatch [flags] <command> [args]

Commands:
  login <username> <password>        Log in and store the session
  logout                             Clear the stored session
  register <username> <email> <pw>   Create an account
  whoami                             Show the current user
  update-profile [profile flags]     Update the current user's profile
  forgot-password <email>            Request a password reset email
  reset-password <uid> <token> <pw>  Complete a password reset
  home                               Show the dashboard
  movies                             List movies
  cinemas                            List cinemas
  showtimes <movieID> [date]         List showtimes for a movie
  seats <showtimeID>                 Show the seat map
  book <showtimeID> <seat>...        Book seats (labels like A1 B7)
  pay <bookingID> [card flags]       Pay for a pending booking
  bookings [upcoming|past|all]       List your bookings
  cancel <bookingID>                 Cancel a confirmed booking
  ticket <bookingID> [-qr file.png]  Show the e-ticket
`

func (app *application) dispatch(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("no command given")
	}

	ctx := context.Background()

	// commands past this point operate on the restored session where one
	// exists; login/register establish their own
	switch cmd, rest := args[0], args[1:]; cmd {
	case "login":
		return app.cmdLogin(ctx, rest)
	case "logout":
		app.auth.Logout()
		fmt.Fprintln(app.stdout, "Logged out.")
		return nil
	case "register":
		return app.cmdRegister(ctx, rest)
	case "whoami":
		return app.cmdWhoami(ctx)
	case "update-profile":
		return app.cmdUpdateProfile(ctx, rest)
	case "forgot-password":
		return app.cmdForgotPassword(ctx, rest)
	case "reset-password":
		return app.cmdResetPassword(ctx, rest)
	case "home":
		return app.cmdHome(ctx)
	case "movies":
		return app.cmdMovies(ctx)
	case "cinemas":
		return app.cmdCinemas(ctx)
	case "showtimes":
		return app.cmdShowtimes(ctx, rest)
	case "seats":
		return app.cmdSeats(ctx, rest)
	case "book":
		return app.cmdBook(ctx, rest)
	case "pay":
		return app.cmdPay(ctx, rest)
	case "bookings":
		return app.cmdBookings(ctx, rest)
	case "cancel":
		return app.cmdCancel(ctx, rest)
	case "ticket":
		return app.cmdTicket(ctx, rest)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// requireSession rejects account-bound commands up front when no token pair
// is stored, instead of letting them fail with a server 401.
func (app *application) requireSession() error {
	if app.store.AccessToken() == "" && app.store.RefreshToken() == "" {
		return domain.ErrNoSession
	}

	return nil
}

func (app *application) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <username> <password>")
	}

	user, err := app.auth.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Welcome back, %s!\n", user.DisplayName())

	return nil
}

func (app *application) cmdRegister(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: register <username> <email> <password>")
	}

	input := api.RegisterRequest{
		Username: args[0],
		Email:    args[1],
		Password: args[2],
	}

	// reject obviously bad input before it leaves the machine; the backend
	// applies the same rules
	if err := app.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return appvalidator.ToValidationError(fieldErrs)
		}

		return err
	}

	user, err := app.auth.Register(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Account created. Welcome, %s!\n", user.DisplayName())

	return nil
}

func (app *application) cmdWhoami(ctx context.Context) error {
	user := app.auth.Restore(ctx)
	if user == nil {
		fmt.Fprintln(app.stdout, "Not logged in.")
		return nil
	}

	fmt.Fprintf(app.stdout, "%s (%s)\n", user.DisplayName(), user.Email)

	return nil
}

func (app *application) cmdUpdateProfile(ctx context.Context, args []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("update-profile", flag.ContinueOnError)
	email := fs.String("email", "", "New email address")
	firstName := fs.String("first-name", "", "New first name")
	lastName := fs.String("last-name", "", "New last name")

	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := app.client.UpdateProfile(ctx, api.ProfileUpdate{
		Email:     *email,
		FirstName: *firstName,
		LastName:  *lastName,
	})
	if err != nil {
		return err
	}

	app.store.SetUser(user)
	fmt.Fprintf(app.stdout, "Profile updated: %s (%s)\n", user.DisplayName(), user.Email)

	return nil
}

func (app *application) cmdForgotPassword(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: forgot-password <email>")
	}

	if err := app.client.ForgotPassword(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, "If that address has an account, a reset email is on its way.")

	return nil
}

func (app *application) cmdResetPassword(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: reset-password <uid> <token> <password>")
	}

	if err := app.client.ResetPassword(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, "Password updated. You can log in with it now.")

	return nil
}

func (app *application) cmdHome(ctx context.Context) error {
	user := app.auth.Restore(ctx)
	if user != nil {
		fmt.Fprintf(app.stdout, "Welcome back, %s!\n", user.DisplayName())

		bookings, err := app.client.Bookings(ctx)
		if err != nil {
			return err
		}

		stats := view.NewDashboardStats(bookings, time.Now())
		fmt.Fprintf(app.stdout, "%d bookings, %d upcoming, total spent %s\n",
			stats.TotalBookings, stats.UpcomingBookings, view.FormatAmount(stats.TotalSpent))
	}

	if recs := view.Recommendations(ctx, app.client, 4); len(recs) > 0 {
		fmt.Fprintln(app.stdout, "\nNow showing:")
		for _, m := range recs {
			fmt.Fprintf(app.stdout, "  %4d  %s\n", m.ID, m.Title)
		}
	}

	return nil
}

func (app *application) cmdCinemas(ctx context.Context) error {
	cinemas, err := app.client.Cinemas(ctx)
	if err != nil {
		return err
	}

	for _, c := range cinemas {
		fmt.Fprintf(app.stdout, "%4d  %-30s %s\n", c.ID, c.Name, c.Location)
	}

	return nil
}

func (app *application) cmdMovies(ctx context.Context) error {
	movies, err := app.client.Movies(ctx)
	if err != nil {
		return err
	}

	for _, m := range movies {
		flags := ""
		if m.Is3D {
			flags += " [3D]"
		}
		if m.IsIMAX {
			flags += " [IMAX]"
		}

		fmt.Fprintf(app.stdout, "%4d  %-40s %-5s %3d min%s\n", m.ID, m.Title, m.Rating, m.Duration, flags)
	}

	return nil
}

func (app *application) cmdShowtimes(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: showtimes <movieID> [date]")
	}

	movieID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid movie ID %q", args[0])
	}

	filter := api.ShowtimeFilter{}
	if len(args) > 1 {
		filter.Date = args[1]
	}

	showtimes, err := app.client.MovieShowtimes(ctx, movieID, filter)
	if err != nil {
		return err
	}

	for _, st := range showtimes {
		fmt.Fprintf(app.stdout, "%4d  %s  %s - %s  %s  (%d seats left)\n",
			st.ID,
			st.StartTime.Format("Mon Jan 2 15:04"),
			st.CinemaName,
			st.ScreenName,
			view.FormatAmount(st.BasePrice),
			st.AvailableSeats,
		)
	}

	return nil
}

func (app *application) cmdSeats(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: seats <showtimeID>")
	}

	showtimeID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid showtime ID %q", args[0])
	}

	showtime, err := app.client.ShowtimeByID(ctx, showtimeID)
	if err != nil {
		return err
	}

	model := seatmap.New(app.client)
	if _, err := model.Load(ctx, showtimeID); err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "%s - %s, base price %s\n\n",
		showtime.Movie.Title, showtime.StartTime.Format("Mon Jan 2 15:04"), view.FormatAmount(showtime.BasePrice))

	for _, row := range model.Rows() {
		fmt.Fprintf(app.stdout, "%-3s", row.Label)
		for _, seat := range row.Seats {
			if seat.Available {
				fmt.Fprintf(app.stdout, " %-4s", seat.Label())
			} else {
				fmt.Fprintf(app.stdout, " %-4s", "--")
			}
		}
		fmt.Fprintln(app.stdout)
	}

	return nil
}

func (app *application) cmdBook(ctx context.Context, args []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}

	if len(args) < 2 {
		return fmt.Errorf("usage: book <showtimeID> <seat>...")
	}

	showtimeID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid showtime ID %q", args[0])
	}

	showtime, err := app.client.ShowtimeByID(ctx, showtimeID)
	if err != nil {
		return err
	}

	model := seatmap.New(app.client)
	if _, err := model.Load(ctx, showtimeID); err != nil {
		return err
	}

	for _, label := range args[1:] {
		label = strings.ToUpper(label)

		seat, ok := model.SeatByLabel(label)
		if !ok {
			return fmt.Errorf("no seat %s in this screen", label)
		}

		if !model.Toggle(seat.ID) {
			return fmt.Errorf("seat %s is not available", label)
		}
	}

	quote := pricing.NewQuote(showtime.BasePrice, model.Selected(), decimal.Zero)
	fmt.Fprintf(app.stdout, "Estimated total: %s (subtotal %s + fee %s)\n",
		view.FormatAmount(quote.Total), view.FormatAmount(quote.Subtotal), view.FormatAmount(quote.Fee))

	orchestrator := checkout.NewOrchestrator(app.client, app.logger)

	booking, err := orchestrator.Submit(ctx, showtimeID, model.SelectedIDs())
	if err != nil {
		return err
	}

	serverQuote := orchestrator.Quote()
	fmt.Fprintf(app.stdout, "Booking %s created (id %d), total %s. Pay with: omniwatch pay %d\n",
		booking.Reference, booking.ID, view.FormatAmount(serverQuote.Total), booking.ID)

	return nil
}

func (app *application) cmdPay(ctx context.Context, args []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("pay", flag.ContinueOnError)
	number := fs.String("card-number", "", "Card number")
	expMonth := fs.Int64("exp-month", 0, "Expiry month")
	expYear := fs.Int64("exp-year", 0, "Expiry year")
	cvc := fs.String("cvc", "", "Card security code")
	name := fs.String("name", "", "Cardholder name")
	email := fs.String("email", "", "Receipt email")

	if len(args) < 1 {
		return fmt.Errorf("usage: pay <bookingID> [card flags]")
	}

	bookingID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid booking ID %q", args[0])
	}

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	booking, err := app.client.BookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	orchestrator := checkout.NewOrchestrator(app.client, app.logger)
	if err := orchestrator.Resume(booking); err != nil {
		return err
	}

	token, err := app.cards.Tokenize(ctx, payment.CardDetails{
		Number:   *number,
		ExpMonth: *expMonth,
		ExpYear:  *expYear,
		CVC:      *cvc,
		Name:     *name,
		Email:    *email,
	})
	if err != nil {
		return err
	}

	if err := orchestrator.Pay(ctx, token); err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Payment confirmed for booking %s. Total paid: %s\n",
		booking.Reference, view.FormatAmount(orchestrator.Quote().Total))

	return nil
}

func (app *application) cmdBookings(ctx context.Context, args []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}

	bookings, err := app.client.Bookings(ctx)
	if err != nil {
		return err
	}

	tab := "all"
	if len(args) > 0 {
		tab = args[0]
	}
	if tab != "all" && tab != "upcoming" && tab != "past" {
		return fmt.Errorf("usage: bookings [upcoming|past|all]")
	}

	now := time.Now()

	// the header summarizes the whole history regardless of the tab shown
	stats := view.NewDashboardStats(bookings, now)
	fmt.Fprintf(app.stdout, "%d bookings, %d upcoming, total spent %s\n\n",
		stats.TotalBookings, stats.UpcomingBookings, view.FormatAmount(stats.TotalSpent))

	switch tab {
	case "upcoming":
		bookings = view.FilterByBucket(bookings, view.BucketUpcoming, now)
	case "past":
		bookings = view.FilterByBucket(bookings, view.BucketPast, now)
	}

	for i := range bookings {
		b := &bookings[i]
		fmt.Fprintf(app.stdout, "%4d  %-12s  %-30s %s  %s  %s\n",
			b.ID,
			b.Reference,
			b.Showtime.Movie.Title,
			b.Showtime.StartTime.Format("Mon Jan 2 15:04"),
			view.FormatAmount(b.TotalAmount),
			b.Status,
		)
	}

	return nil
}

func (app *application) cmdCancel(ctx context.Context, args []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}

	if len(args) != 1 {
		return fmt.Errorf("usage: cancel <bookingID>")
	}

	bookingID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid booking ID %q", args[0])
	}

	booking, err := app.client.BookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	orchestrator := checkout.NewOrchestrator(app.client, app.logger)
	if err := orchestrator.Cancel(ctx, booking); err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Booking %s cancelled.\n", booking.Reference)

	return nil
}

func (app *application) cmdTicket(ctx context.Context, args []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("ticket", flag.ContinueOnError)
	qrPath := fs.String("qr", "", "Write the entry QR code to this PNG file")

	if len(args) < 1 {
		return fmt.Errorf("usage: ticket <bookingID> [-qr file.png]")
	}

	bookingID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid booking ID %q", args[0])
	}

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	booking, err := app.client.BookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	ticket := view.NewTicket(booking)

	fmt.Fprintf(app.stdout, "E-Ticket %s\n", ticket.Reference)
	fmt.Fprintf(app.stdout, "%s (%s)\n", ticket.MovieTitle, ticket.Rating)
	fmt.Fprintf(app.stdout, "%s - %s\n", ticket.CinemaName, ticket.ScreenName)
	fmt.Fprintf(app.stdout, "%s at %s\n", ticket.Date, ticket.Time)
	fmt.Fprintf(app.stdout, "Seats: %s\n", strings.Join(ticket.SeatLabels, ", "))
	fmt.Fprintf(app.stdout, "Total paid: %s\n", ticket.Total)

	if *qrPath != "" {
		data, err := view.TicketQR(booking, 256)
		if err != nil {
			return err
		}

		if err := os.WriteFile(*qrPath, data, 0o644); err != nil {
			return err
		}

		fmt.Fprintf(app.stdout, "QR code written to %s\n", *qrPath)
	}

	return nil
}
