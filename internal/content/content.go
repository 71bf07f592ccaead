// Package content holds every reply and broadcast text the bot sends, plus the
// schedule of the daily broadcasts. Defaults are built in; a YAML file can
// override any subset of them without a rebuild.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Catalog is the full set of texts used by the command handlers and broadcasts.
type Catalog struct {
	Start         string     `yaml:"start"`
	Help          string     `yaml:"help"`
	Pola          string     `yaml:"pola"`
	Promo         string     `yaml:"promo"`
	CaraDeposit   string     `yaml:"caradeposit"`
	GetIDNoThread string     `yaml:"getidNoThread"`
	Keywords      Keywords   `yaml:"keywords"`
	Broadcasts    Broadcasts `yaml:"broadcasts"`
}

// Keyword is an auto-reply fired when inbound text matches Pattern
// (case-insensitive).
type Keyword struct {
	Pattern string `yaml:"pattern"`
	Reply   string `yaml:"reply"`
}

type Keywords struct {
	Bukti Keyword `yaml:"bukti"`
	Pola  Keyword `yaml:"pola"`
	Promo Keyword `yaml:"promo"`
}

// Broadcast is a daily message; Spec is a standard 5-field cron expression.
type Broadcast struct {
	Spec string `yaml:"spec"`
	Text string `yaml:"text"`
}

type Broadcasts struct {
	PolaHarian Broadcast `yaml:"polaHarian"`
	PromoSiang Broadcast `yaml:"promoSiang"`
	BuktiCuan  Broadcast `yaml:"buktiCuan"`
}

func lines(l ...string) string { return strings.Join(l, "\n") }

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Start: "Halo Bos! 👋\nSiap bantu auto-balas & auto-broadcast.\nKetik /help buat lihat menu.",
		Help: lines(
			"*Menu:*",
			"/pola - Pola gacor hari ini",
			"/promo - Promo & bonus",
			"/caradeposit - Cara deposit",
			"/getid - Lihat chat ID & thread ID (pakai di grup/topik)",
		),
		Pola: lines(
			"🎯 *Pola Gacor Hari Ini*",
			"• Slot 1: ...",
			"• Slot 2: ...",
			"• Catatan: sesuaikan jam main & modal.",
		),
		Promo: lines(
			"🎁 *Promo & Bonus Aktif*",
			"• Cashback harian",
			"• Freebet event",
			"• Turnamen mingguan",
			"_Cek detail di channel pengumuman._",
		),
		CaraDeposit: lines(
			"💳 *Cara Deposit*",
			"1) Hubungkan akun",
			"2) Pilih metode (QRIS/Bank/e-Wallet)",
			"3) Upload bukti, tunggu verifikasi",
			"_CS standby kalau butuh bantuan._",
		),
		GetIDNoThread: "(tidak ada / bukan topic)",
		Keywords: Keywords{
			Bukti: Keyword{Pattern: "#bukti", Reply: "Terima kasih kirim buktinya, Bos! ✅"},
			Pola:  Keyword{Pattern: "pola|polanya|pattern", Reply: "Mau pola cepat? ketik /pola ya Bos."},
			Promo: Keyword{Pattern: "promo|bonus", Reply: "Info promo terbaru ada di /promo, cek ya Bos 😉"},
		},
		Broadcasts: Broadcasts{
			PolaHarian: Broadcast{
				Spec: "0 9 * * *",
				Text: lines(
					"📌 *Prediksi & Pola Harian*",
					"• Prediksi: ...",
					"• Pola: ...",
					"⏳ Update harian, cek rutin ya Bos.",
				),
			},
			PromoSiang: Broadcast{
				Spec: "0 12 * * *",
				Text: lines(
					"🔥 *Promo Siang*",
					"• Cashback harian",
					"• Event share bukti",
					"Gas yang santai, tetap enjoy.",
				),
			},
			BuktiCuan: Broadcast{
				Spec: "0 19 * * *",
				Text: lines(
					"🎉 *Bukti Cuan Member*",
					"#bukti #win\n",
					"Yang gas 👉 panen. Yang ragu 👉 tinggal cerita 😁",
				),
			},
		},
	}
}

// Load returns the default catalog overlaid with the YAML file at path.
// An empty path returns the defaults.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content file: %w", err)
	}
	defer f.Close()

	cat, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("content file %s: %w", path, err)
	}
	return cat, nil
}

// Decode overlays YAML from r onto the defaults. Keys absent from the
// document keep their default value; unknown keys are rejected.
func Decode(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	cat := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cat); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Validate checks that no text is empty, every keyword pattern compiles and
// every broadcast spec is a valid 5-field cron expression.
func (c *Catalog) Validate() error {
	var errs []error

	texts := map[string]string{
		"start":         c.Start,
		"help":          c.Help,
		"pola":          c.Pola,
		"promo":         c.Promo,
		"caradeposit":   c.CaraDeposit,
		"getidNoThread": c.GetIDNoThread,
	}
	for name, text := range texts {
		if strings.TrimSpace(text) == "" {
			errs = append(errs, fmt.Errorf("%s: text is empty", name))
		}
	}

	for name, kw := range c.KeywordSet() {
		if strings.TrimSpace(kw.Reply) == "" {
			errs = append(errs, fmt.Errorf("keywords.%s: reply is empty", name))
		}
		if _, err := regexp.Compile("(?i)" + kw.Pattern); err != nil || kw.Pattern == "" {
			errs = append(errs, fmt.Errorf("keywords.%s: invalid pattern %q", name, kw.Pattern))
		}
	}

	for name, b := range c.BroadcastSet() {
		if strings.TrimSpace(b.Text) == "" {
			errs = append(errs, fmt.Errorf("broadcasts.%s: text is empty", name))
		}
		if _, err := cron.ParseStandard(b.Spec); err != nil {
			errs = append(errs, fmt.Errorf("broadcasts.%s: invalid spec %q: %w", name, b.Spec, err))
		}
	}

	return errors.Join(errs...)
}

// KeywordSet returns the keyword rules keyed by their YAML name.
func (c *Catalog) KeywordSet() map[string]Keyword {
	return map[string]Keyword{
		"bukti": c.Keywords.Bukti,
		"pola":  c.Keywords.Pola,
		"promo": c.Keywords.Promo,
	}
}

// BroadcastSet returns the broadcasts keyed by their YAML name.
func (c *Catalog) BroadcastSet() map[string]Broadcast {
	return map[string]Broadcast{
		"polaHarian": c.Broadcasts.PolaHarian,
		"promoSiang": c.Broadcasts.PromoSiang,
		"buktiCuan":  c.Broadcasts.BuktiCuan,
	}
}
