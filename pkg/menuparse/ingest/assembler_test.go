package ingest

import (
	"testing"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

func newTestAssembler() *Assembler {
	return NewAssembler(NewClassifier(Lexicon{}))
}

func TestAssembleHeadersAndItems(t *testing.T) {
	a := newTestAssembler()

	state := a.Assemble([]string{
		"APPETIZERS",
		"Spring Roll $3.50",
		"Egg Roll $3.00",
		"ENTREES",
		"General Tso's Chicken $12.99",
	})

	if len(state.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d: %v", len(state.Categories), categoryNames(state.Categories))
	}
	if state.Categories[0].Name != "APPETIZERS" || len(state.Categories[0].Items) != 2 {
		t.Errorf("Unexpected first category: %s with %d items", state.Categories[0].Name, len(state.Categories[0].Items))
	}
	if state.Categories[1].Name != "ENTREES" || len(state.Categories[1].Items) != 1 {
		t.Errorf("Unexpected second category: %s with %d items", state.Categories[1].Name, len(state.Categories[1].Items))
	}
	if len(state.Items) != 3 {
		t.Errorf("Expected 3 items, got %d", len(state.Items))
	}
	if state.Current != nil {
		t.Error("Open category should be closed at end of input")
	}

	// flat list shares pointers with the categories
	if state.Items[0] != state.Categories[0].Items[0] {
		t.Error("Flat item list should reference category items")
	}

	first := state.Items[0]
	if first.Name != "Spring Roll" || first.Price == nil || *first.Price != "$3.50" || *first.PriceNumber != 3.50 {
		t.Errorf("Unexpected first item: %+v", first)
	}
}

func TestAssemblePriceContinuationLine(t *testing.T) {
	a := newTestAssembler()

	state := a.Assemble([]string{
		"Kung Pao Chicken",
		"$10.99",
		"Egg Roll $2.00",
	})

	if len(state.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(state.Items))
	}
	item := state.Items[0]
	if item.Name != "Kung Pao Chicken" {
		t.Errorf("Unexpected name %q", item.Name)
	}
	if !item.HasPrice() || *item.PriceNumber != 10.99 {
		t.Errorf("Expected price from continuation line, got %+v", item)
	}
	if item.Description != nil {
		t.Errorf("Price-only line should not become a description, got %q", *item.Description)
	}
}

func TestAssemblePriceWithDescriptionLine(t *testing.T) {
	a := newTestAssembler()

	state := a.Assemble([]string{
		"Kung Pao Chicken",
		"Spicy with peanuts $10.99",
	})

	if len(state.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(state.Items))
	}
	item := state.Items[0]
	if item.DescriptionText() != "Spicy with peanuts" {
		t.Errorf("Expected description from look-ahead, got %q", item.DescriptionText())
	}
	if !item.HasPrice() || *item.PriceNumber != 10.99 {
		t.Errorf("Expected price 10.99, got %+v", item)
	}
}

func TestAssembleDescriptionLine(t *testing.T) {
	a := newTestAssembler()

	state := a.Assemble([]string{
		"Orange Chicken $11.50",
		"Crispy chicken in tangy orange sauce",
		"Beef Lo Mein $9.00",
	})

	if len(state.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(state.Items))
	}
	if got := state.Items[0].DescriptionText(); got != "Crispy chicken in tangy orange sauce" {
		t.Errorf("Unexpected description %q", got)
	}
	if state.Items[1].Name != "Beef Lo Mein" {
		t.Errorf("Expected second item Beef Lo Mein, got %q", state.Items[1].Name)
	}
}

func TestAssembleSkipLineIsNotDescription(t *testing.T) {
	a := newTestAssembler()

	state := a.Assemble([]string{
		"Spring Roll $3.50",
		"Call us at (555) 123-4567",
	})

	if len(state.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(state.Items))
	}
	if state.Items[0].Description != nil {
		t.Errorf("Skip line must not become a description, got %q", *state.Items[0].Description)
	}
}

func TestAssembleEnumerationPrefix(t *testing.T) {
	a := newTestAssembler()

	state := a.Assemble([]string{
		"1. Hot and Sour Soup $4.50",
		"2) Egg Foo Young $8.25",
	})

	if len(state.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(state.Items))
	}
	if state.Items[0].Name != "Hot and Sour Soup" {
		t.Errorf("Expected enumeration stripped, got %q", state.Items[0].Name)
	}
	if state.Items[1].Name != "Egg Foo Young" {
		t.Errorf("Expected enumeration stripped, got %q", state.Items[1].Name)
	}
}

func TestAssembleDropsEmptyCategories(t *testing.T) {
	a := newTestAssembler()

	state := a.Assemble([]string{
		"APPETIZERS",
		"ENTREES",
		"General Tso's Chicken $12.99",
		"DESSERTS",
	})

	if len(state.Categories) != 1 || state.Categories[0].Name != "ENTREES" {
		t.Errorf("Expected only ENTREES, got %v", categoryNames(state.Categories))
	}
}

func TestAssembleItemsBeforeFirstHeader(t *testing.T) {
	a := newTestAssembler()

	state := a.Assemble([]string{
		"Egg Roll $3.00",
		"SOUPS",
		"Wonton Soup $4.00",
	})

	names := categoryNames(state.Categories)
	if len(names) != 2 || names[0] != menu.FallbackCategory || names[1] != "SOUPS" {
		t.Errorf("Expected [%s SOUPS], got %v", menu.FallbackCategory, names)
	}
}

func TestAssembleDocumentLevelFallback(t *testing.T) {
	a := newTestAssembler()

	state := a.Assemble([]string{
		"Spring Roll $3.50",
		"Egg Roll $3.00",
		"Wonton Soup $4.00",
	})

	if len(state.Categories) != 1 {
		t.Fatalf("Expected 1 category, got %d", len(state.Categories))
	}
	if state.Categories[0].Name != menu.FallbackCategory {
		t.Errorf("Expected fallback category, got %q", state.Categories[0].Name)
	}
	if len(state.Categories[0].Items) != 3 {
		t.Errorf("Expected 3 items in fallback category, got %d", len(state.Categories[0].Items))
	}
}

func TestAssembleDiscardsShortNames(t *testing.T) {
	a := NewAssembler(NewClassifier(Lexicon{DishKeywords: []string{"q"}}))

	state := a.Assemble([]string{"10. q"})
	if len(state.Items) != 0 {
		t.Errorf("Single-character names should be discarded, got %+v", state.Items[0])
	}
}

func TestStepReportsConsumedLines(t *testing.T) {
	a := newTestAssembler()
	lines := []string{
		"Kung Pao Chicken",
		"$10.99",
		"Diced chicken with roasted peanuts",
		"SOUPS",
	}

	var state ScanState
	if n := a.Step(&state, lines, 0); n != 3 {
		t.Errorf("Expected item with price and description to consume 3 lines, got %d", n)
	}
	if state.Current == nil || state.Current.Name != menu.FallbackCategory {
		t.Fatal("Item should open the fallback category lazily")
	}

	if n := a.Step(&state, lines, 3); n != 1 {
		t.Errorf("Header should consume 1 line, got %d", n)
	}
	if len(state.Categories) != 1 || state.Current.Name != "SOUPS" {
		t.Errorf("Header should close fallback and open SOUPS, got %v / %v",
			categoryNames(state.Categories), state.Current.Name)
	}
}

func TestStepSkipLeavesStateAlone(t *testing.T) {
	a := newTestAssembler()
	state := ScanState{Current: &menu.Category{Name: "SOUPS"}}

	if n := a.Step(&state, []string{"Mon-Fri 11am-9pm"}, 0); n != 1 {
		t.Errorf("Skip should consume 1 line, got %d", n)
	}
	if state.Current.Name != "SOUPS" || len(state.Items) != 0 {
		t.Error("Skip line should not change scan state")
	}
}

func categoryNames(cats []*menu.Category) []string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names
}
