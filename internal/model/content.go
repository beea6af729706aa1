// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the content document: the single versioned value that
// holds everything the landing page renders plus its embedded analytics
// counters. JSON tags are the wire format shared by the local cache and the
// remote store, so they change only together with SchemaVersion.
package model

import "time"

// SchemaVersion tags serialized documents. A cached document whose tag does
// not exactly match is discarded wholesale; there is no migration path.
const SchemaVersion = "1.1.0"

// AdminConfig holds the admin panel credentials and entry visibility.
type AdminConfig struct {
	Password        string `json:"password"`
	ShowAdminButton bool   `json:"showAdminButton"`
}

// Branding holds site-wide identity fields. Logo and favicon URLs are either
// external links or base64 data URLs produced by the upload pipeline.
type Branding struct {
	LogoURL     string `json:"logoUrl"`
	FaviconURL  string `json:"faviconUrl"`
	BrandName   string `json:"brandName"`
	AccentColor string `json:"accentColor"`
}

// Hero is the top-of-page section.
type Hero struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"ctaText"`
	ImageURL    string `json:"imageUrl"`
	Visible     bool   `json:"visible"`

	BadgeWarranty    string   `json:"badgeWarranty"`
	BadgeRating      string   `json:"badgeRating"`
	BadgeTestimonial string   `json:"badgeTestimonial"`
	BadgeTrust       string   `json:"badgeTrust"`
	TrustBadges      []string `json:"trustBadges"`
}

// Package is one service tier in the pricing table.
type Package struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	StepPoles       int    `json:"stepPoles"`
	WaktuPengerjaan string `json:"waktuPengerjaan"`
	Ketahanan       string `json:"ketahanan"`
	Proteksi        string `json:"proteksi"`
	Garansi         string `json:"garansi"`
	RetakRambut     bool   `json:"retakRambut"`
	Harga           int64  `json:"harga"`
	IsBestSeller    bool   `json:"isBestSeller"`
	Visible         bool   `json:"visible"`
}

// Pricing is the package comparison section.
type Pricing struct {
	SectionTitle    string    `json:"sectionTitle"`
	SectionSubtitle string    `json:"sectionSubtitle"`
	Packages        []Package `json:"packages"`
	Visible         bool      `json:"visible"`
}

// Feature is one selling point card.
type Feature struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Features is the selling points section.
type Features struct {
	SectionTitle string    `json:"sectionTitle"`
	Items        []Feature `json:"items"`
	Visible      bool      `json:"visible"`
}

// Step is one numbered stage of the work process.
type Step struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Process is the work process section.
type Process struct {
	SectionTitle string `json:"sectionTitle"`
	Steps        []Step `json:"steps"`
	Visible      bool   `json:"visible"`
}

// GalleryImage is one portfolio photo. URL is an external link or a base64
// data URL from the upload pipeline.
type GalleryImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Gallery is the work portfolio section.
type Gallery struct {
	SectionTitle    string         `json:"sectionTitle"`
	SectionSubtitle string         `json:"sectionSubtitle"`
	Images          []GalleryImage `json:"images"`
	Visible         bool           `json:"visible"`
}

// Testimonial is one customer review card. Rating is 0-5 stars.
type Testimonial struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	AvatarURL string `json:"avatarUrl"`
}

// Testimonials is the customer reviews section.
type Testimonials struct {
	SectionTitle    string        `json:"sectionTitle"`
	SectionSubtitle string        `json:"sectionSubtitle"`
	Items           []Testimonial `json:"items"`
	Visible         bool          `json:"visible"`
}

// CTA is the closing call-to-action section. The WhatsApp number is stored
// as entered; link generation strips it down to digits.
type CTA struct {
	Headline       string `json:"headline"`
	Subheadline    string `json:"subheadline"`
	ButtonText     string `json:"buttonText"`
	WhatsAppNumber string `json:"whatsappNumber"`
	Visible        bool   `json:"visible"`
}

// Footer is the page footer section.
type Footer struct {
	Tagline string `json:"tagline"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	Visible bool   `json:"visible"`
}

// Analytics holds the visit counters embedded in the document. DailyStats is
// keyed by ISO calendar date (YYYY-MM-DD).
type Analytics struct {
	TotalVisits  int            `json:"totalVisits"`
	UniqueVisits int            `json:"uniqueVisits"`
	DailyStats   map[string]int `json:"dailyStats"`
	LastReset    string         `json:"lastReset"`
}

// ContentDocument is the complete site content. It travels as one value:
// section edits and analytics ticks both produce a full new document.
type ContentDocument struct {
	AdminConfig  AdminConfig  `json:"adminConfig"`
	Branding     Branding     `json:"branding"`
	Hero         Hero         `json:"hero"`
	Pricing      Pricing      `json:"pricing"`
	Features     Features     `json:"features"`
	Process      Process      `json:"process"`
	Gallery      Gallery      `json:"gallery"`
	Testimonials Testimonials `json:"testimonials"`
	CTA          CTA          `json:"cta"`
	Footer       Footer       `json:"footer"`
	Analytics    Analytics    `json:"analytics"`
}

// Clone returns a deep copy. Handlers edit clones and hand them to the
// synchronizer; the currently published document is never mutated in place.
func (d *ContentDocument) Clone() *ContentDocument {
	next := *d

	next.Hero.TrustBadges = append([]string(nil), d.Hero.TrustBadges...)
	next.Pricing.Packages = append([]Package(nil), d.Pricing.Packages...)
	next.Features.Items = append([]Feature(nil), d.Features.Items...)
	next.Process.Steps = append([]Step(nil), d.Process.Steps...)
	next.Gallery.Images = append([]GalleryImage(nil), d.Gallery.Images...)
	next.Testimonials.Items = append([]Testimonial(nil), d.Testimonials.Items...)

	next.Analytics.DailyStats = make(map[string]int, len(d.Analytics.DailyStats))
	for k, v := range d.Analytics.DailyStats {
		next.Analytics.DailyStats[k] = v
	}

	return &next
}

// Public returns a copy safe to expose to unauthenticated callers: the admin
// password is blanked. Everything else, analytics included, is public data.
func (d *ContentDocument) Public() *ContentDocument {
	next := d.Clone()
	next.AdminConfig.Password = ""
	return next
}

// Default returns the built-in content document used when neither the remote
// store nor the local cache yields a usable document.
func Default() *ContentDocument {
	return &ContentDocument{
		AdminConfig: AdminConfig{
			Password:        "admin123",
			ShowAdminButton: true,
		},
		Branding: Branding{
			BrandName:   "Heppimobi",
			AccentColor: "#E32636",
		},
		Hero: Hero{
			Headline:    "Lampu Mobil Bening, Gak Pakai Ribet",
			Subheadline: "Heppimobi adalah spesialis restorasi lampu mobil No.1. Kembalikan kejernihan lampu mobil Anda dengan teknologi Nano Burn & Ceramic Coating.",
			CTAText:     "Booking Sekarang",
			ImageURL:    "https://images.unsplash.com/photo-1503376780353-7e6692767b70?q=80&w=2070&auto=format&fit=crop",
			Visible:     true,
		},
		Pricing: Pricing{
			SectionTitle:    "Pilih Paket Kejernihan",
			SectionSubtitle: "Dapatkan visibilitas maksimal dengan perlindungan jangka panjang.",
			Visible:         true,
			Packages: []Package{
				{
					ID:              "1",
					Name:            "EXPRESS",
					StepPoles:       5,
					WaktuPengerjaan: "2 JAM",
					Ketahanan:       "6 BULAN",
					Proteksi:        "Sealant",
					Garansi:         "-",
					Harga:           249000,
					Visible:         true,
				},
				{
					ID:              "2",
					Name:            "NANO BURN",
					StepPoles:       8,
					WaktuPengerjaan: "4 JAM",
					Ketahanan:       "2 TAHUN",
					Proteksi:        "Import",
					Garansi:         "6 BULAN",
					RetakRambut:     true,
					Harga:           395000,
					Visible:         true,
				},
				{
					ID:              "3",
					Name:            "NANO CERAMIC",
					StepPoles:       10,
					WaktuPengerjaan: "6 JAM",
					Ketahanan:       "4 TAHUN",
					Proteksi:        "Ceramic Coat",
					Garansi:         "1 TAHUN",
					RetakRambut:     true,
					Harga:           495000,
					IsBestSeller:    true,
					Visible:         true,
				},
			},
		},
		Features: Features{
			SectionTitle: "Kenapa Memilih Kami?",
			Visible:      true,
			Items: []Feature{
				{
					ID:          "f1",
					Title:       "Tanpa Bongkar",
					Description: "Keamanan orisinalitas seal lampu terjamin 100%.",
					Icon:        "Shield",
				},
				{
					ID:          "f2",
					Title:       "Home Service",
					Description: "Kami datang ke rumah Anda. Hemat waktu dan tenaga.",
					Icon:        "Zap",
				},
				{
					ID:          "f3",
					Title:       "Hasil Permanen",
					Description: "Teknologi Nano Burn memastikan kejernihan tahan lama.",
					Icon:        "Smile",
				},
			},
		},
		Process: Process{
			SectionTitle: "Work Process",
			Visible:      true,
			Steps: []Step{
				{ID: "s1", Number: 1, Title: "Deep Cleaning", Description: "Pembersihan total residu kotoran."},
				{ID: "s2", Number: 2, Title: "Multi-Sand", Description: "Proses amplas berjenjang 5-10 tahap."},
				{ID: "s3", Number: 3, Title: "Nano Coating", Description: "Penguapan / Pelapisan Ceramic."},
				{ID: "s4", Number: 4, Title: "Inspection", Description: "Pengecekan kualitas akhir."},
			},
		},
		Gallery: Gallery{
			SectionTitle:    "Hasil Pengerjaan Kami",
			SectionSubtitle: "Sebelum dan sesudah restorasi lampu oleh tim Heppimobi.",
			Visible:         true,
			Images: []GalleryImage{
				{ID: "g1", URL: "https://images.unsplash.com/photo-1489824904134-891ab64532f1?q=80&w=800&auto=format&fit=crop", Alt: "Restorasi lampu depan"},
				{ID: "g2", URL: "https://images.unsplash.com/photo-1552519507-da3b142c6e3d?q=80&w=800&auto=format&fit=crop", Alt: "Detail lampu mobil sport"},
				{ID: "g3", URL: "https://images.unsplash.com/photo-1542362567-b07e54358753?q=80&w=800&auto=format&fit=crop", Alt: "Lampu jernih setelah coating"},
				{ID: "g4", URL: "https://images.unsplash.com/photo-1494976388531-d1058494cdd8?q=80&w=800&auto=format&fit=crop", Alt: "Hasil akhir nano ceramic"},
			},
		},
		Testimonials: Testimonials{
			SectionTitle:    "Kata Mereka",
			SectionSubtitle: "Pengalaman pelanggan yang sudah mempercayakan mobilnya pada kami.",
			Visible:         true,
			Items: []Testimonial{
				{
					ID:      "t1",
					Name:    "Budi Santoso",
					Role:    "Pemilik Avanza",
					Content: "Lampu mobil saya yang sudah kuning 5 tahun kembali bening seperti baru. Pengerjaan rapi dan cepat.",
					Rating:  5,
				},
				{
					ID:      "t2",
					Name:    "Rina Wijaya",
					Role:    "Pemilik HR-V",
					Content: "Home service-nya sangat membantu, tidak perlu antre di bengkel. Hasilnya memuaskan.",
					Rating:  5,
				},
				{
					ID:      "t3",
					Name:    "Andi Pratama",
					Role:    "Pemilik Pajero",
					Content: "Sudah 1 tahun sejak nano ceramic dan lampu masih jernih. Worth it dengan garansinya.",
					Rating:  5,
				},
			},
		},
		CTA: CTA{
			Headline:       "Siap Tampil Beda?",
			Subheadline:    "Hubungi kami hari ini dan dapatkan slot jadwal tercepat.",
			ButtonText:     "Contact us via WhatsApp",
			WhatsAppNumber: "628123456789",
			Visible:        true,
		},
		Footer: Footer{
			Tagline: "HEPPIMOBI, YOU HAPPY",
			Contact: "0812-3456-7890",
			Address: "Jabodetabek Area",
			Visible: true,
		},
		Analytics: Analytics{
			DailyStats: make(map[string]int),
			LastReset:  time.Now().UTC().Format(time.RFC3339),
		},
	}
}
