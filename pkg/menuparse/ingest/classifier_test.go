package ingest

import "testing"

func TestIsSkippable(t *testing.T) {
	c := NewClassifier(Lexicon{})

	skip := []string{
		"Mon-Fri 11am-9pm",
		"Open Daily",
		"11:30 AM",
		"11:00 am - 10:00 pm",
		"(555) 123-4567",
		"Tel 555.123.4567",
		"123 Main Street",
		"4500 W. Broad St.",
		"Suite 200",
		"Richmond, VA 23220",
		"www.goldendragon.com",
		"Order at https://example.org/menu",
		"Powered by Squarespace",
		"© 2023 Golden Dragon",
		"xkvbgzpl",
	}
	for _, line := range skip {
		if !c.IsSkippable(line) {
			t.Errorf("Expected %q to be skipped", line)
		}
	}

	keep := []string{
		"Spring Roll $3.50",
		"General Tso's Chicken $12.99",
		"APPETIZERS",
		"Wonton Soup",
	}
	for _, line := range keep {
		if c.IsSkippable(line) {
			t.Errorf("Did not expect %q to be skipped", line)
		}
	}
}

func TestIsHeader(t *testing.T) {
	c := NewClassifier(Lexicon{})

	headers := []string{
		"APPETIZERS",
		"ENTREES",
		"Soups",
		"Appetizers:",
		"Lunch Special",
		"Dinner Menu",
		"Noodle Specials",
		"Served with rice and soup",
		"Includes: egg roll",
		"HOUSE FAVORITES",
	}
	for _, line := range headers {
		if !c.IsHeader(line) {
			t.Errorf("Expected %q to be a header", line)
		}
	}

	notHeaders := []string{
		"Shrimp Fried Rice $10.95",
		"Vegetable Soup",
		"Chicken with Broccoli",
		"CHICKEN WITH BROCCOLI",
		"BEEF LO MEIN $9.00",
		"Egg Roll",
		"",
	}
	for _, line := range notHeaders {
		if c.IsHeader(line) {
			t.Errorf("Did not expect %q to be a header", line)
		}
	}
}

func TestIsMenuItem(t *testing.T) {
	c := NewClassifier(Lexicon{})

	items := []string{
		"Spring Roll $3.50",
		"Wonton Soup",
		"Mapo Tofu",
		"Grandma's Secret Recipe",
		"Chicken with Broccoli",
	}
	for _, line := range items {
		if !c.IsMenuItem(line) {
			t.Errorf("Expected %q to be a menu item", line)
		}
	}

	notItems := []string{
		"ab",
		"12345",
		"---- 1 ----",
		"$$$",
		"9 9 9 9 x",
		"Call (555) 123-4567 today",
	}
	for _, line := range notItems {
		if c.IsMenuItem(line) {
			t.Errorf("Did not expect %q to be a menu item", line)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	c := NewClassifier(Lexicon{})

	tests := []struct {
		line string
		want LineClass
	}{
		{"APPETIZERS", CategoryHeader},
		{"Spring Roll $3.50", MenuItemLine},
		// would pass the item test, but skip wins
		{"Delivery 123 Main St", Skip},
		// uppercase and short, but a phone number
		{"CALL 555-123-4567", Skip},
		{"....", Unclassified},
		{"xkvbgzpl", Skip},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.line, got, tt.want)
		}
	}
}

func TestLineClassString(t *testing.T) {
	if Skip.String() != "SKIP" || CategoryHeader.String() != "CATEGORY_HEADER" ||
		MenuItemLine.String() != "MENU_ITEM" || Unclassified.String() != "UNCLASSIFIED" {
		t.Error("Unexpected LineClass names")
	}
}

func TestClassifierLexiconExtension(t *testing.T) {
	base := NewClassifier(Lexicon{})
	if base.IsHeader("Tapas") {
		t.Fatal("Tapas should not be a header with the default lexicon")
	}

	c := NewClassifier(Lexicon{
		CategoryKeywords: []string{"tapas"},
		BareCategories:   []string{"Tapas"},
		SkipPhrases:      []string{"Cash Only"},
	})
	if !c.IsHeader("Tapas") {
		t.Error("Extended lexicon should make Tapas a header")
	}
	if !c.IsSkippable("cash only please") {
		t.Error("Extended skip phrase should be matched case-insensitively")
	}
	// defaults survive the extension
	if !c.IsHeader("APPETIZERS") {
		t.Error("Default vocabulary should remain after extension")
	}
}

func TestHasCategoryKeyword(t *testing.T) {
	c := NewClassifier(Lexicon{CategoryKeywords: []string{"tapas"}})
	for name, want := range map[string]bool{
		"Chef's Soups": true,
		"TAPAS":        true,
		"Menu Items":   false,
		"Other":        false,
	} {
		if got := c.HasCategoryKeyword(name); got != want {
			t.Errorf("HasCategoryKeyword(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestStreetWordsInDishNames(t *testing.T) {
	c := NewClassifier(Lexicon{})
	n := NewNormalizer()

	for _, raw := range []string{
		"3 Street Tacos $9.99",
		"1/2 Rack St. Louis Ribs $15.99",
		"Chef's 1st Choice Chicken $9.99",
		"Suite 2 Sampler $12.95",
	} {
		lines := n.Normalize(raw)
		if len(lines) != 1 {
			t.Fatalf("Normalize(%q) = %q", raw, lines)
		}
		if got := c.Classify(lines[0]); got != MenuItemLine {
			t.Errorf("Classify(%q) = %s, want MENU_ITEM", lines[0], got)
		}
	}

	for _, line := range []string{
		"123 Main St, Richmond",
		"88 Canal Street Suite 4",
		"4500 W. Broad St 23220",
	} {
		if !c.IsSkippable(line) {
			t.Errorf("Expected address %q to be skipped", line)
		}
	}
}

func TestPricedKeywordLineIsAnItem(t *testing.T) {
	c := NewClassifier(Lexicon{})

	if got := c.Classify("Combo Special $9.99"); got != MenuItemLine {
		t.Errorf("Classify(Combo Special $9.99) = %s, want MENU_ITEM", got)
	}
	if got := c.Classify("Combo Specials"); got != CategoryHeader {
		t.Errorf("Classify(Combo Specials) = %s, want CATEGORY_HEADER", got)
	}
}
