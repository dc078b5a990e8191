package storage

import (
	"testing"
	"time"

	"github.com/arsipa/arsipa/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("19102001 Sistem Informasi Akademik")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		doc  *core.Document
	}{
		{
			name: "minimal document",
			doc: &core.Document{
				Id:         core.ID(1),
				Kind:       "thesis",
				Title:      "Pengenalan Pola Tulisan Tangan",
				Author:     "Siti Rahma",
				StudentID:  "19102042",
				Program:    "IF",
				Faculty:    "FTI",
				Year:       2023,
				Status:     core.StatusPending,
				Revision:   1,
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "document with vector",
			doc: &core.Document{
				Id:         core.ID(2),
				Kind:       "internship-report",
				Title:      "Laporan Kerja Praktik PT Telkom",
				Author:     "Andi Wijaya",
				StudentID:  "20102007",
				Program:    "SI",
				Faculty:    "FTI",
				Year:       2024,
				Keywords:   []string{"jaringan", "monitoring"},
				Advisors:   []string{"Dr. Hartono", "Ir. Dewi"},
				Abstract:   "Laporan ini membahas monitoring jaringan.",
				Status:     core.StatusAccepted,
				Vector:     []float32{0.1, 0.2, 0.3, 0.4, 0.5},
				Revision:   3,
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "rejected document keeps reason and stale vector",
			doc: &core.Document{
				Id:              core.ID(3),
				Kind:            "thesis",
				Title:           "Judul",
				Author:          "Penulis",
				StudentID:       "18102001",
				Program:         "IF",
				Year:            2022,
				Status:          core.StatusRejected,
				RejectionReason: "Abstrak tidak sesuai dengan isi dokumen",
				Vector:          []float32{0.9, 0.8},
				Revision:        5,
				InsertedAt:      now,
				UpdatedAt:       now,
			},
		},
		{
			name: "document with file metadata and owner",
			doc: &core.Document{
				Id:        core.ID(4),
				Kind:      "thesis",
				Title:     "Judul Lengkap",
				Author:    "Penulis",
				StudentID: "17102013",
				Program:   "SI",
				Year:      2021,
				Status:    core.StatusPending,
				File: core.FileRef{
					URL:          "https://files.example.org/documents/abc.pdf",
					StorageKey:   "documents/abc",
					OriginalName: "skripsi-final.pdf",
					ContentType:  "application/pdf",
					Size:         1048576,
				},
				Owner:      "mahasiswa@kampus.ac.id",
				Revision:   1,
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "unicode fields",
			doc: &core.Document{
				Id:         core.ID(5),
				Kind:       "thesis",
				Title:      "Analisis — 世界 🌍 données",
				Author:     "Péter",
				StudentID:  "19102099",
				Program:    "IF",
				Year:       2024,
				Status:     core.StatusPending,
				Revision:   1,
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalDocument(tt.doc)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.doc.Id, decoded.Id)
			assert.Equal(t, tt.doc.Kind, decoded.Kind)
			assert.Equal(t, tt.doc.Title, decoded.Title)
			assert.Equal(t, tt.doc.Author, decoded.Author)
			assert.Equal(t, tt.doc.StudentID, decoded.StudentID)
			assert.Equal(t, tt.doc.Program, decoded.Program)
			assert.Equal(t, tt.doc.Faculty, decoded.Faculty)
			assert.Equal(t, tt.doc.Year, decoded.Year)
			assert.Equal(t, tt.doc.Abstract, decoded.Abstract)
			assert.Equal(t, tt.doc.Status, decoded.Status)
			assert.Equal(t, tt.doc.RejectionReason, decoded.RejectionReason)
			assert.Equal(t, tt.doc.Revision, decoded.Revision)
			assert.Equal(t, tt.doc.File, decoded.File)
			assert.Equal(t, tt.doc.Owner, decoded.Owner)
			assert.True(t, tt.doc.InsertedAt.Equal(decoded.InsertedAt))
			assert.True(t, tt.doc.UpdatedAt.Equal(decoded.UpdatedAt))
			// Handle nil vs empty slice
			if len(tt.doc.Keywords) == 0 {
				assert.Empty(t, decoded.Keywords)
			} else {
				assert.Equal(t, tt.doc.Keywords, decoded.Keywords)
			}
			if len(tt.doc.Advisors) == 0 {
				assert.Empty(t, decoded.Advisors)
			} else {
				assert.Equal(t, tt.doc.Advisors, decoded.Advisors)
			}
			if len(tt.doc.Vector) == 0 {
				assert.Empty(t, decoded.Vector)
			} else {
				assert.Equal(t, tt.doc.Vector, decoded.Vector)
			}
		})
	}
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDocument(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestRoundTripConsistency(t *testing.T) {
	t.Run("multiple marshal-unmarshal cycles", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		original := &core.Document{
			Id:         core.ID(999),
			Kind:       "thesis",
			Title:      "Konsistensi Serialisasi",
			Author:     "Penulis",
			StudentID:  "19102100",
			Program:    "IF",
			Year:       2024,
			Keywords:   []string{"serialisasi"},
			Status:     core.StatusAccepted,
			Vector:     []float32{0.1, 0.2, 0.3},
			Revision:   2,
			InsertedAt: now,
			UpdatedAt:  now,
		}

		current := original
		for i := 0; i < 3; i++ {
			data := MarshalDocument(current)
			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			current = decoded
		}

		assert.Equal(t, original.Id, current.Id)
		assert.Equal(t, original.Title, current.Title)
		assert.Equal(t, original.Keywords, current.Keywords)
		assert.Equal(t, original.Vector, current.Vector)
		assert.Equal(t, original.Revision, current.Revision)
	})
}
