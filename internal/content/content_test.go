package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestDefault_BroadcastTimes(t *testing.T) {
	b := Default().Broadcasts
	if b.PolaHarian.Spec != "0 9 * * *" || b.PromoSiang.Spec != "0 12 * * *" || b.BuktiCuan.Spec != "0 19 * * *" {
		t.Errorf("unexpected default specs: %q %q %q", b.PolaHarian.Spec, b.PromoSiang.Spec, b.BuktiCuan.Spec)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Start != Default().Start {
		t.Error("expected default start text")
	}
}

func TestDecode_OverlayKeepsUnsetFields(t *testing.T) {
	doc := `
promo: "Promo baru"
broadcasts:
  promoSiang:
    spec: "30 12 * * *"
`
	cat, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	def := Default()
	if cat.Promo != "Promo baru" {
		t.Errorf("promo not overridden: %q", cat.Promo)
	}
	if cat.Broadcasts.PromoSiang.Spec != "30 12 * * *" {
		t.Errorf("spec not overridden: %q", cat.Broadcasts.PromoSiang.Spec)
	}
	if cat.Broadcasts.PromoSiang.Text != def.Broadcasts.PromoSiang.Text {
		t.Error("broadcast text should keep its default")
	}
	if cat.Pola != def.Pola || cat.Keywords.Bukti != def.Keywords.Bukti {
		t.Error("untouched fields should keep defaults")
	}
}

func TestDecode_EmptyDocument(t *testing.T) {
	cat, err := Decode(strings.NewReader("  \n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cat.Help != Default().Help {
		t.Error("expected defaults for empty document")
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad cron", "broadcasts:\n  buktiCuan:\n    spec: \"every day\"\n", "buktiCuan"},
		{"bad pattern", "keywords:\n  promo:\n    pattern: \"promo(\"\n", "keywords.promo"},
		{"empty text", "start: \"\"\n", "start"},
		{"unknown key", "greeting: halo\n", "greeting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	if err := os.WriteFile(path, []byte("keywords:\n  bukti:\n    reply: \"Mantap!\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Keywords.Bukti.Reply != "Mantap!" || cat.Keywords.Bukti.Pattern != "#bukti" {
		t.Errorf("unexpected bukti keyword: %+v", cat.Keywords.Bukti)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
