//go:build integration

package source_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"trialfinder/internal/trials/models"
	"trialfinder/internal/trials/source"
	"trialfinder/pkg/platform/sentinel"
	"trialfinder/pkg/testutil/containers"
)

type RedisSnapshotStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *source.RedisSnapshotStore
}

func TestRedisSnapshotStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSnapshotStoreSuite))
}

func (s *RedisSnapshotStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = source.NewRedisSnapshotStore(s.redis.Client, time.Minute)
}

func (s *RedisSnapshotStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisSnapshotStoreSuite) TestRoundTripPreservesTrial() {
	ctx := context.Background()
	enrollment := 160
	in := []models.Trial{{
		ID:              "2",
		NCTID:           "NCT04297683",
		Title:           "HEALEY ALS Platform Trial",
		Status:          "RECRUITING",
		LastUpdated:     models.NewDate(2023, time.November, 4),
		EnrollmentCount: &enrollment,
		Genes:           []string{"SOD1"},
	}, {
		NCTID: "NCT00000001",
	}}

	s.Require().NoError(s.store.Save(ctx, "snap", in))
	out, err := s.store.Load(ctx, "snap")
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal("2023-11-04", out[0].LastUpdated.String())
	s.Require().NotNil(out[0].EnrollmentCount)
	s.Equal(160, *out[0].EnrollmentCount)
	s.True(out[1].LastUpdated.IsZero())
	s.Nil(out[1].EnrollmentCount)

	ttl, err := s.redis.Client.TTL(ctx, "snap").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisSnapshotStoreSuite) TestMissingKey() {
	_, err := s.store.Load(context.Background(), "absent")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

type PostgresSourceSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	src      *source.PostgresSource
}

func TestPostgresSourceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSourceSuite))
}

func (s *PostgresSourceSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.postgres.Exec(s.T(), `CREATE TABLE IF NOT EXISTS "Dashboard_trial" (
		unique_protocol_id TEXT PRIMARY KEY,
		nct_id TEXT,
		brief_title TEXT,
		lead_sponsor_name TEXT,
		overall_status TEXT,
		study_phase TEXT,
		study_type TEXT,
		status_verified_date DATE,
		study_start_date DATE,
		completion_date DATE,
		enrollment_count INTEGER,
		clinical_trial_url TEXT,
		genes JSONB,
		intervention_name JSONB
	)`)
	s.src = source.NewPostgresSource(s.postgres.DB, "", nil, nil)
}

func (s *PostgresSourceSuite) SetupTest() {
	s.postgres.Exec(s.T(), `TRUNCATE "Dashboard_trial"`)
}

func (s *PostgresSourceSuite) TestFetchMapsColumns() {
	s.postgres.Exec(s.T(),
		`INSERT INTO "Dashboard_trial" VALUES ('b', 'NCT2', 'Tofersen', 'Biogen', 'COMPLETED', 'PHASE3', 'INTERVENTIONAL',
			'2023-10-01', '2016-03-01', NULL, 150, 'https://clinicaltrials.gov/study/NCT2',
			'[{"gene_symbol":"SOD1"}]', '[{"type":"GENETIC","name":"Tofersen"}]')`,
		`INSERT INTO "Dashboard_trial" (unique_protocol_id, nct_id, brief_title, intervention_name) VALUES ('a', 'NCT1', 'Sparse', '["Riluzole"]')`,
		`INSERT INTO "Dashboard_trial" (unique_protocol_id, nct_id, brief_title) VALUES ('c', 'NCT1', 'Duplicate')`,
	)

	trials, err := s.src.Fetch(context.Background())
	s.Require().NoError(err)
	s.Require().Len(trials, 2)

	s.Equal("Sparse", trials[0].Title, "rows come back in primary key order")
	s.Nil(trials[0].EnrollmentCount)
	s.True(trials[0].LastUpdated.IsZero())
	s.Empty(trials[0].InterventionTypes, "bare intervention names are not types")

	full := trials[1]
	s.Equal("Biogen", full.Sponsor)
	s.Equal("2023-10-01", full.LastUpdated.String())
	s.Equal("2016-03-01", full.StartDate.String())
	s.Equal([]string{"SOD1"}, full.Genes)
	s.Equal([]string{"GENETIC"}, full.InterventionTypes)
	s.Require().NotNil(full.EnrollmentCount)
	s.Equal(150, *full.EnrollmentCount)
}

func (s *PostgresSourceSuite) TestFetchEmptyTable() {
	trials, err := s.src.Fetch(context.Background())
	s.Require().NoError(err)
	s.NotNil(trials)
	s.Empty(trials)
}

func (s *PostgresSourceSuite) TestMissingTableIsNotFound() {
	src := source.NewPostgresSource(s.postgres.DB, "no_such_table", nil, nil)
	_, err := src.Fetch(context.Background())
	s.Require().Error(err)
	s.Equal(source.ErrorNotFound, source.GetCategory(err))
}
