package markup

import (
	"testing"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in        string
		isBinding bool
		wantErr   bool
		path      string
		format    string
	}{
		{in: "plain", isBinding: false},
		{in: "{}{escaped}", isBinding: false},
		{in: "{Binding}", isBinding: true, path: ""},
		{in: "{Binding Name}", isBinding: true, path: "Name"},
		{in: "{Binding Path=Customer.Name}", isBinding: true, path: "Customer.Name"},
		{in: "{Binding Total, StringFormat='%.2f EUR'}", isBinding: true, path: "Total", format: "%.2f EUR"},
		{in: "{Binding Items[0].Sku}", isBinding: true, path: "Items[0].Sku"},
		{in: "{Binding Name", isBinding: true, wantErr: true},
		{in: "{StaticResource Key}", isBinding: true, wantErr: true},
		{in: "{Binding Foo=1}", isBinding: true, wantErr: true},
		{in: "{Binding Items[x]}", isBinding: true, wantErr: true},
		{in: "{Binding StringFormat=%d, Count}", isBinding: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			b, ok, err := ParseBinding(tt.in)
			if ok != tt.isBinding {
				t.Fatalf("isBinding: got %v, want %v", ok, tt.isBinding)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil || !ok {
				return
			}
			if b.Path != tt.path {
				t.Errorf("Path: got %q, want %q", b.Path, tt.path)
			}
			if b.StringFormat != tt.format {
				t.Errorf("StringFormat: got %q, want %q", b.StringFormat, tt.format)
			}
		})
	}
}

type address struct {
	City string `json:"city"`
}

type customer struct {
	Name    string
	Address *address `json:"address"`
	Tags    []string
	secret  string
}

func TestResolvePath(t *testing.T) {
	data := map[string]any{
		"customer": customer{
			Name:    "Ada",
			Address: &address{City: "London"},
			Tags:    []string{"vip", "new"},
			secret:  "x",
		},
		"count": 3,
		"empty": (*customer)(nil),
	}

	tests := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{path: "", want: nil, wantOK: true},
		{path: "count", want: 3, wantOK: true},
		{path: "customer.Name", want: "Ada", wantOK: true},
		{path: "customer.address.city", want: "London", wantOK: true},
		{path: "customer.Address.City", want: "London", wantOK: true},
		{path: "customer.Tags[1]", want: "new", wantOK: true},
		{path: "customer.Tags[5]", wantOK: false},
		{path: "customer.secret", wantOK: false},
		{path: "customer.Missing", wantOK: false},
		{path: "empty.Name", wantOK: false},
		{path: "count.Value", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ResolvePath(data, tt.path)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if !ok || tt.path == "" {
				return
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBinding_ResolveFallback(t *testing.T) {
	b, _, err := ParseBinding("{Binding Missing, FallbackValue='n/a'}")
	if err != nil {
		t.Fatalf("ParseBinding failed: %v", err)
	}
	got, ok := b.Resolve(map[string]any{})
	if !ok || got != "n/a" {
		t.Errorf("Resolve: got %v, %v; want n/a, true", got, ok)
	}
}

func TestBinding_Format(t *testing.T) {
	b, _, err := ParseBinding("{Binding Total, StringFormat='Total: %.2f'}")
	if err != nil {
		t.Fatalf("ParseBinding failed: %v", err)
	}
	if got := b.Format(12.5); got != "Total: 12.50" {
		t.Errorf("Format: got %q", got)
	}

	plain := &Binding{}
	if got := plain.Format(7); got != "7" {
		t.Errorf("Format without StringFormat: got %q", got)
	}
}
