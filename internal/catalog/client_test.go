package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testudo-plus/schedule-api/internal/models"
	"github.com/testudo-plus/schedule-api/pkg/config"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
)

func socServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/soc/202508/CMSC", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingHTML))
	})
	mux.HandleFunc("/soc/gen-ed/202508/FSOC", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<div class="course"><div class="course-id">COMM107</div>
			<span class="course-subcategory"><a href="#">FSOC</a></span></div>`))
	})
	mux.HandleFunc("/soc/202508/CMSC/CMSC330", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sectionsHTML))
	})
	mux.HandleFunc("/soc/202508/COMM/COMM107", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sectionsHTML))
	})
	return httptest.NewServer(mux)
}

func testCatalogConfig(baseURL string) config.CatalogConfig {
	return config.CatalogConfig{
		SOCBaseURL:   baseURL,
		FetchTimeout: 5 * time.Second,
	}
}

func TestFetchDepartmentPartition(t *testing.T) {
	srv := socServer(t)
	defer srv.Close()

	client := NewClient(testCatalogConfig(srv.URL), nil)
	id := models.PartitionID{Kind: models.PartitionDepartment, Key: "CMSC", TermID: "202508"}

	sections, err := client.FetchPartition(context.Background(), id)
	require.NoError(t, err)
	// CMSC330 resolves two section rows; COMM107's detail page is under the
	// COMM department path and also resolves.
	require.Len(t, sections, 4)

	first := sections[0]
	assert.Equal(t, "CMSC330", first.Code)
	assert.Equal(t, "0101", first.Section)
	assert.Equal(t, "Organization of Programming Languages", first.Title)
	assert.Equal(t, "Jane Rivera", first.Instructor)
	assert.Equal(t, "MWF", first.Days)
	assert.Equal(t, "10:00am-10:50am", first.Time)
	assert.Equal(t, 12, first.OpenSeats)
	assert.Equal(t, "202508", first.TermID)
	assert.Nil(t, first.InstructorRating, "enrichment disabled")
}

func TestFetchGenEdPartition(t *testing.T) {
	srv := socServer(t)
	defer srv.Close()

	client := NewClient(testCatalogConfig(srv.URL), nil)
	id := models.PartitionID{Kind: models.PartitionGenEd, Key: "FSOC", TermID: "202508"}

	sections, err := client.FetchPartition(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "COMM107", sections[0].Code)
	assert.Equal(t, []string{"FSOC"}, sections[0].GenEdCodes)
}

func TestFetchPartitionListingFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(testCatalogConfig(srv.URL), nil)
	id := models.PartitionID{Kind: models.PartitionDepartment, Key: "CMSC", TermID: "202508"}

	_, err := client.FetchPartition(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrPartitionUnavailable)
}

func TestFetchPartitionSkipsFailedCourse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/soc/202508/CMSC", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingHTML))
	})
	mux.HandleFunc("/soc/202508/CMSC/CMSC330", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sectionsHTML))
	})
	// COMM107's detail page stays unregistered and 404s.
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testCatalogConfig(srv.URL), nil)
	id := models.PartitionID{Kind: models.PartitionDepartment, Key: "CMSC", TermID: "202508"}

	sections, err := client.FetchPartition(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	for _, sec := range sections {
		assert.Equal(t, "CMSC330", sec.Code)
	}
}

func TestFetchPartitionSectionCap(t *testing.T) {
	srv := socServer(t)
	defer srv.Close()

	cfg := testCatalogConfig(srv.URL)
	cfg.MaxSectionsPerDoc = 1
	client := NewClient(cfg, nil)
	id := models.PartitionID{Kind: models.PartitionDepartment, Key: "CMSC", TermID: "202508"}

	sections, err := client.FetchPartition(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, sections, 1)
}
