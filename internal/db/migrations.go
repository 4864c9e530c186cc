package db

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{1, `
		CREATE TABLE IF NOT EXISTS streaks (
			user_id            TEXT PRIMARY KEY,
			workout_streak     INTEGER NOT NULL DEFAULT 0 CHECK (workout_streak >= 0),
			water_streak       INTEGER NOT NULL DEFAULT 0 CHECK (water_streak >= 0),
			diet_streak        INTEGER NOT NULL DEFAULT 0 CHECK (diet_streak >= 0),
			last_workout_date  TIMESTAMPTZ,
			last_water_date    TIMESTAMPTZ,
			last_diet_date     TIMESTAMPTZ,
			badges             JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`},
	{2, `
		CREATE TABLE IF NOT EXISTS workouts (
			id          UUID PRIMARY KEY,
			user_id     TEXT NOT NULL,
			type        TEXT NOT NULL,
			duration    DOUBLE PRECISION NOT NULL,
			calories    DOUBLE PRECISION NOT NULL DEFAULT 0,
			date        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			image       TEXT NOT NULL DEFAULT '',
			notes       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts (user_id, date DESC);

		CREATE TABLE IF NOT EXISTS meals (
			id          UUID PRIMARY KEY,
			user_id     TEXT NOT NULL,
			food_name   TEXT NOT NULL,
			calories    DOUBLE PRECISION NOT NULL DEFAULT 0,
			date        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			meal_type   TEXT NOT NULL DEFAULT 'breakfast',
			image       TEXT NOT NULL DEFAULT '',
			quantity    TEXT NOT NULL DEFAULT '1 serving',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals (user_id, date DESC);

		CREATE TABLE IF NOT EXISTS water_intake (
			id          UUID PRIMARY KEY,
			user_id     TEXT NOT NULL,
			glasses     INTEGER NOT NULL DEFAULT 0 CHECK (glasses BETWEEN 0 AND 20),
			date        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_water_user_date ON water_intake (user_id, date DESC);
	`},
	{3, `
		CREATE TABLE IF NOT EXISTS device_tokens (
			token      TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			platform   TEXT NOT NULL,
			added_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_used  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_device_tokens_user ON device_tokens (user_id);
	`},
}
