// Package cli runs the interactive meal entry loop on a terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/macrolens/intake/internal/domain"
	"github.com/macrolens/intake/internal/usecase"
)

const welcome = "Welcome to Calorie Intake Calculator! 😊 \n\n" +
	"How to use? 🤔\n\n" +
	"Just enter food   🥑🍕🍔🍣🥩🥕🍩🍇🌮🧀\n" +
	"and quantity (grams/units) ⚖️ 🔢📐📊📏🥄\n\n" +
	"That's it! 😎 \n\n"

// nutrientPrompts are asked in this order when saving a new food.
var nutrientPrompts = []struct {
	nutrient string
	format   string
}{
	{domain.NutrientCalories, "Enter kcal for %s every 100 g: "},
	{domain.NutrientTotalFat, "Enter g of total fat for %s every 100 g: "},
	{domain.NutrientProtein, "Enter g of protein for %s every 100 g: "},
	{domain.NutrientCarbohydrate, "Enter g of carbohydrates for %s every 100 g: "},
	{domain.NutrientSugars, "Enter g of sugar for %s every 100 g: "},
}

// Session reads food entries line by line and prints running totals.
type Session struct {
	resolver  *usecase.Resolver
	suggester *usecase.SuggestionService
	in        *bufio.Scanner
	out       io.Writer
	logger    *slog.Logger
	meal      *domain.Meal
}

// NewSession creates a session reading from in and writing to out.
// suggester may be nil.
func NewSession(
	resolver *usecase.Resolver,
	suggester *usecase.SuggestionService,
	in io.Reader,
	out io.Writer,
	logger *slog.Logger,
) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		resolver:  resolver,
		suggester: suggester,
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger,
		meal:      domain.NewMeal(),
	}
}

// Meal returns the entries collected so far.
func (s *Session) Meal() *domain.Meal {
	return s.meal
}

// Run loops until the user declines to add more food or the input ends,
// then prints the final summary and returns the final totals.
func (s *Session) Run(ctx context.Context) (domain.Totals, error) {
	s.printf("%s", welcome)

	totals := domain.Totals{}
	for {
		if err := ctx.Err(); err != nil {
			return totals, err
		}

		more, err := s.step(ctx)
		totals = s.resolver.Aggregate(ctx, s.meal)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return totals, err
		}
		if !more {
			break
		}
	}

	s.printf("\n✅ Final Nutritional Summary:\n")
	s.writeTotals(totals)
	return totals, nil
}

// step handles one food entry and reports whether the user wants more.
func (s *Session) step(ctx context.Context) (bool, error) {
	food, err := s.readFood()
	if err != nil {
		return false, err
	}
	quantity, err := s.readQuantity(food)
	if err != nil {
		return false, err
	}
	s.meal.Add(food, quantity)

	if res := s.resolver.Resolve(ctx, food, s.meal.Quantity(food)); !res.Found {
		s.printf("⚠️ %s was not found in database.\n\n", food)
		if err := s.offerNewFood(ctx, food); err != nil {
			return false, err
		}
	}

	s.printf("\n🟢 Current Total:\n")
	s.writeTotals(s.resolver.Aggregate(ctx, s.meal))

	return s.confirm("➕", "add more", "continue")
}

func (s *Session) readFood() (string, error) {
	for {
		food, err := s.prompt("Enter food item: ")
		if err != nil {
			return "", err
		}
		if food != "" {
			return food, nil
		}
	}
}

// readQuantity asks for the quantity of food until it gets a valid number.
func (s *Session) readQuantity(food string) (float64, error) {
	for {
		answer, err := s.prompt(fmt.Sprintf("Enter quantity for %s: ", food))
		if err != nil {
			return 0, err
		}
		quantity, err := parseAmount(answer)
		if err == nil {
			return quantity, nil
		}
		s.printf("❌ Invalid quantity. Please enter a number.\n\n")
	}
}

func (s *Session) offerNewFood(ctx context.Context, food string) error {
	save, err := s.confirm("💾", "save", "save new food")
	if err != nil || !save {
		return err
	}

	record, err := s.suggestedRecord(ctx, food)
	if err != nil {
		return err
	}
	if record == nil {
		if record, err = s.readRecord(food); err != nil {
			return err
		}
	}

	_, err = s.resolver.AddFood(ctx, food,
		record[domain.NutrientCalories],
		record[domain.NutrientTotalFat],
		record[domain.NutrientProtein],
		record[domain.NutrientCarbohydrate],
		record[domain.NutrientSugars])
	switch {
	case errors.Is(err, domain.ErrStoreWrite):
		// Still counted for this session.
		s.logger.Error("failed to persist new food", "food", food, "error", err)
		s.printf("⚠️ %s was added for this session but could not be saved.\n", food)
	case err != nil:
		s.printf("❌ Could not add %s: %v\n", food, err)
	default:
		s.printf("✅ New food added successfully!\n")
	}
	return nil
}

// suggestedRecord offers the USDA match for food. It returns nil when
// suggestions are off, nothing was found, or the user turned it down.
func (s *Session) suggestedRecord(ctx context.Context, food string) (domain.NutrientRecord, error) {
	if !s.suggester.Enabled() {
		return nil, nil
	}

	suggestion, err := s.suggester.Suggest(ctx, food)
	if err != nil {
		s.logger.Warn("usda suggestion unavailable", "food", food, "error", err)
		return nil, nil
	}

	s.printf("\n🔎 USDA FoodData Central suggests %q (per 100 g):\n", suggestion.Description)
	s.writeTotals(domain.Totals(suggestion.Record))

	use, err := s.confirm("📋", "use these values for this", "use them")
	if err != nil || !use {
		return nil, err
	}
	return suggestion.Record, nil
}

// readRecord collects the five per-100g values, asking again for any
// field that is not a valid number.
func (s *Session) readRecord(food string) (domain.NutrientRecord, error) {
	record := make(domain.NutrientRecord, len(nutrientPrompts))
	for _, p := range nutrientPrompts {
		for {
			answer, err := s.prompt(fmt.Sprintf(p.format, food))
			if err != nil {
				return nil, err
			}
			value, err := parseAmount(answer)
			if err == nil {
				record[p.nutrient] = value
				break
			}
			s.printf("⚠️ Please enter valid numbers (whole or decimal values only).\n\n")
		}
	}
	return record, nil
}

// confirm asks a y/n question until it gets one of the two.
func (s *Session) confirm(emoji, action, meaning string) (bool, error) {
	for {
		answer, err := s.prompt(fmt.Sprintf("\n%s Would you like to %s food (y/n): ", emoji, action))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		s.printf("❌ Invalid input. Please enter 'y' to %s, otherwise enter 'n'.\n", meaning)
	}
}

// prompt prints text and returns the next trimmed input line, or io.EOF
// once the input is exhausted.
func (s *Session) prompt(text string) (string, error) {
	s.printf("%s", text)
	if !s.in.Scan() {
		s.printf("\n")
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) writeTotals(totals domain.Totals) {
	if err := usecase.WriteTotals(s.out, totals); err != nil {
		s.logger.Warn("failed to write totals", "error", err)
	}
}

// parseAmount accepts finite, non-negative decimal numbers.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidNumber, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidNumber, s)
	}
	return v, nil
}
