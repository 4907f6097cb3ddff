package planner

import "testing"

func TestExtractOrderID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare id after keyword", "where is my order ORD-12345", "ORD-12345"},
		{"order number prefix", "order number: 98765", "98765"},
		{"order id hash", "order id #4451", "4451"},
		{"no digits", "I would like to order for pickup", ""},
		{"too short", "order 12", ""},
		{"no keyword", "ORD-12345 please", ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractOrderID(tc.text); got != tc.want {
				t.Fatalf("ExtractOrderID(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractProductID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"product number", "tell me about product 42", "42"},
		{"sku", "do you have sku AB-99", "AB-99"},
		{"plural is not a reference", "show me similar products", ""},
		{"absent", "what colors do you have", ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractProductID(tc.text); got != tc.want {
				t.Fatalf("ExtractProductID(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"prefix stripped", "Tell me about the warranty", "the warranty"},
		{"product expanded", "what is product 7?", "product 7 description ecommerce catalog"},
		{"plain passthrough", "warranty on headphones", "warranty on headphones"},
		{"trailing punctuation", "Show me laptops!", "laptops"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeQuery(tc.in); got != tc.want {
				t.Fatalf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
