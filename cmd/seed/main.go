package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"komunitas-be/internal/config"
	"komunitas-be/internal/domain"
	"komunitas-be/internal/repository"
	"komunitas-be/pkg/logger"
)

// Development helper: pushes a handful of sample kegiatan through the API
// facade so the public site and the admin dashboard have something to show.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/seed [check|kegiatan]")
		os.Exit(1)
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zlog, err := logger.New(cfg.LogLevel, "development")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	api := repository.NewKegiatanAPI(cfg, zlog)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch command {
	case "check":
		if err := check(ctx, api); err != nil {
			log.Fatalf("Check failed: %v", err)
		}
		fmt.Println("✅ Upstream API reachable, lookup tables present")

	case "kegiatan":
		if err := seedKegiatan(ctx, api); err != nil {
			log.Fatalf("Failed to seed kegiatan: %v", err)
		}
		fmt.Println("✅ Sample kegiatan seeded")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func check(ctx context.Context, api repository.ActivityAPI) error {
	statuses, err := api.ListStatuses(ctx)
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		return fmt.Errorf("status lookup table is empty")
	}
	types, err := api.ListTypes(ctx)
	if err != nil {
		return err
	}
	if len(types) == 0 {
		return fmt.Errorf("jenis lookup table is empty")
	}
	return nil
}

func seedKegiatan(ctx context.Context, api repository.ActivityAPI) error {
	statuses, err := api.ListStatuses(ctx)
	if err != nil {
		return err
	}
	types, err := api.ListTypes(ctx)
	if err != nil {
		return err
	}
	if len(statuses) == 0 || len(types) == 0 {
		return fmt.Errorf("lookup tables must be seeded upstream first")
	}

	table := domain.BuildStatusTable(statuses)
	statusID := func(cat domain.StatusCategory) int {
		if id, ok := table.IDFor(cat); ok {
			return id
		}
		return statuses[0].ID
	}

	samples := []repository.ActivityPayload{
		{
			Nama:           "Bagi Takjil Ramadhan",
			Deskripsi:      "Pembagian takjil gratis di sekitar bundaran HI",
			Tanggal:        time.Now().AddDate(0, 0, 14).Format("2006-01-02"),
			JumlahPeserta:  25,
			Lokasi:         domain.NewGeoPoint(-6.1950, 106.8230),
			JenisKegiatan:  types[0].ID,
			StatusKegiatan: statusID(domain.StatusUpcoming),
		},
		{
			Nama:           "Kerja Bakti Kampung Melayu",
			Deskripsi:      "Bersih-bersih saluran air bersama warga RW 03",
			Tanggal:        time.Now().Format("2006-01-02"),
			JumlahPeserta:  40,
			Lokasi:         domain.NewGeoPoint(-6.2245, 106.8650),
			JenisKegiatan:  types[0].ID,
			StatusKegiatan: statusID(domain.StatusOngoing),
		},
		{
			Nama:           "Santunan Anak Yatim",
			Deskripsi:      "Penyaluran donasi rutin bulanan",
			Tanggal:        time.Now().AddDate(0, -1, 0).Format("2006-01-02"),
			JumlahPeserta:  60,
			Lokasi:         domain.NewGeoPoint(-6.2607, 106.8105),
			JenisKegiatan:  types[len(types)-1].ID,
			StatusKegiatan: statusID(domain.StatusCompleted),
		},
	}

	for i := range samples {
		rec, err := api.CreateActivity(ctx, &samples[i])
		if err != nil {
			return fmt.Errorf("create %q: %w", samples[i].Nama, err)
		}
		fmt.Printf("  created kegiatan %d: %s\n", rec.ID, rec.Nama)
	}
	return nil
}
