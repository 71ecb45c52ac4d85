package letter_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/letter"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

var (
	directionKey = template.MustKey("chips", "direction_letter", "1")
	reminderKey  = template.MustKey("chips", "reminder_letter", "2")
	fixedNow     = time.Date(2025, time.August, 4, 15, 30, 0, 0, time.UTC)
)

func newBuilder(t *testing.T, opts ...letter.Option) *letter.Builder {
	t.Helper()

	reg, err := template.NewRegistry(
		template.Entry{
			Key: directionKey,
			Schema: template.Schema{
				Required: []string{
					"company_name", "reference", "deadline_date", "extension_date",
					"address_line_1", "deadline_date_cy", "todays_date",
				},
				NeedsToday: true,
				Bilingual:  true,
			},
		},
		template.Entry{
			Key: reminderKey,
			Schema: template.Schema{
				Required:          []string{"company_name", "appointment_date", "trigger_date", "reply_by_date"},
				ReplyByDays:       28,
				TriggerDateSource: "appointment_date",
				Format:            template.FormatMarkdown,
			},
		},
	)
	require.NoError(t, err)

	opts = append([]letter.Option{letter.WithClock(func() time.Time { return fixedNow })}, opts...)
	b, err := letter.NewBuilder(reg, opts...)
	require.NoError(t, err)
	return b
}

func directionParams() letter.Params {
	return letter.Params{
		Key:       directionKey,
		Reference: "REF1",
		Address:   letter.NewAddress("Line 1"),
		Personalisation: map[string]string{
			"company_name":   "tŷ'r cwmnïau",
			"deadline_date":  "18 August 2025",
			"extension_date": "1 September 2025",
		},
	}
}

func TestBuild_ExampleScenario(t *testing.T) {
	t.Parallel()

	ctx, err := newBuilder(t).Build(directionParams())
	require.NoError(t, err)

	vars := ctx.Vars()
	require.Equal(t, "TŶ'R CWMNÏAU", vars["company_name"])
	require.Equal(t, "REF1", vars["reference"])
	require.Equal(t, "REF1", ctx.Reference())
	require.Equal(t, "18 August 2025", vars["deadline_date"])
	require.Equal(t, "1 September 2025", vars["extension_date"])
	require.Equal(t, "18 Awst 2025", vars["deadline_date_cy"])
	require.Equal(t, "1 Medi 2025", vars["extension_date_cy"])
	require.Equal(t, "4 August 2025", vars["todays_date"])
	require.Equal(t, "4 Awst 2025", vars["todays_date_cy"])
	require.Equal(t, "Line 1", vars["address_line_1"])
	require.Equal(t, "", vars["address_line_7"])
	require.Equal(t, "templates", vars["root_path"])
	require.Equal(t, "templates/chips/direction_letter", vars["letter_path"])
	require.Equal(t, "templates/common", vars["common_path"])

	require.True(t, ctx.Key().Equal(directionKey))
	require.Equal(t, "direction_letter_v1.html", ctx.Location().Filename)
	require.Equal(t, time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC), ctx.SendingDate())
}

func TestBuild_ReservedReference(t *testing.T) {
	t.Parallel()

	p := directionParams()
	p.Personalisation["reference"] = "OVERRIDE"

	_, err := newBuilder(t).Build(p)
	require.ErrorIs(t, err, letter.ErrReservedField)
}

func TestBuild_CompanyName(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		p := directionParams()
		delete(p.Personalisation, "company_name")
		_, err := newBuilder(t).Build(p)
		require.ErrorIs(t, err, letter.ErrMissingCompanyName)
	})

	t.Run("blank", func(t *testing.T) {
		t.Parallel()
		p := directionParams()
		p.Personalisation["company_name"] = "   "
		_, err := newBuilder(t).Build(p)
		require.ErrorIs(t, err, letter.ErrMissingCompanyName)
	})

	t.Run("address and personalisation are normalized", func(t *testing.T) {
		t.Parallel()
		p := directionParams()
		p.Personalisation["company_name"] = "acme ltd"
		p.Personalisation["signatory"] = "Acme Ltd"
		p.Personalisation["other"] = "acme limited"
		p.Address = letter.NewAddress("ACME LTD", " acme ltd ", "1 High Street")

		ctx, err := newBuilder(t).Build(p)
		require.NoError(t, err)
		vars := ctx.Vars()
		require.Equal(t, "ACME LTD", vars["company_name"])
		require.Equal(t, "ACME LTD", vars["address_line_1"])
		require.Equal(t, "ACME LTD", vars["address_line_2"])
		require.Equal(t, "1 High Street", vars["address_line_3"])
		require.Equal(t, "ACME LTD", vars["signatory"])
		require.Equal(t, "acme limited", vars["other"])
	})
}

func TestBuild_MissingReference(t *testing.T) {
	t.Parallel()

	p := directionParams()
	p.Reference = " "
	_, err := newBuilder(t).Build(p)
	require.ErrorIs(t, err, letter.ErrMissingReference)
}

func TestBuild_UnregisteredTemplate(t *testing.T) {
	t.Parallel()

	p := directionParams()
	p.Key = template.MustKey("chips", "direction_letter", "9")
	_, err := newBuilder(t).Build(p)
	require.ErrorIs(t, err, template.ErrTemplateNotRegistered)
}

func TestBuild_MissingVariables(t *testing.T) {
	t.Parallel()

	t.Run("names exactly the omitted variable", func(t *testing.T) {
		t.Parallel()
		for _, omit := range []string{"deadline_date", "extension_date"} {
			p := directionParams()
			delete(p.Personalisation, omit)

			_, err := newBuilder(t).Build(p)
			require.ErrorIs(t, err, letter.ErrMissingVariables)

			var verr *letter.ValidationError
			require.True(t, errors.As(err, &verr))
			require.True(t, verr.Key.Equal(directionKey))

			want := []string{omit}
			if omit == "deadline_date" {
				want = []string{"deadline_date", "deadline_date_cy"}
			}
			require.Equal(t, want, verr.Missing)
			require.Contains(t, err.Error(), "chips/direction_letter/v1")
		}
	})

	t.Run("lists every missing variable", func(t *testing.T) {
		t.Parallel()
		p := directionParams()
		p.Personalisation = map[string]string{"company_name": "x"}
		p.Address = letter.Address{}

		_, err := newBuilder(t).Build(p)
		var verr *letter.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, []string{"deadline_date", "deadline_date_cy", "extension_date"}, verr.Missing)
	})

	t.Run("extra variables pass through", func(t *testing.T) {
		t.Parallel()
		p := directionParams()
		p.Personalisation["favourite_colour"] = "green"

		ctx, err := newBuilder(t).Build(p)
		require.NoError(t, err)
		v, ok := ctx.Get("favourite_colour")
		require.True(t, ok)
		require.Equal(t, "green", v)
	})
}

func TestBuild_LocalizationErrors(t *testing.T) {
	t.Parallel()

	p := directionParams()
	p.Personalisation["deadline_date"] = "18/08/2025"
	_, err := newBuilder(t).Build(p)
	require.Error(t, err)
	require.Contains(t, err.Error(), "deadline_date")
}

func TestBuild_ReplyByAndTrigger(t *testing.T) {
	t.Parallel()

	ctx, err := newBuilder(t).Build(letter.Params{
		Key:       reminderKey,
		Reference: "REF2",
		Personalisation: map[string]string{
			"company_name":     "acme",
			"appointment_date": "3 March 2025",
		},
	})
	require.NoError(t, err)

	vars := ctx.Vars()
	require.Equal(t, "1 September 2025", vars["reply_by_date"])
	require.Equal(t, "1 Medi 2025", vars["reply_by_date_cy"])
	require.Equal(t, "3 March 2025", vars["trigger_date"])
	require.Equal(t, "3 Mawrth 2025", vars["trigger_date_cy"])
	require.NotContains(t, vars, "todays_date")
	require.Equal(t, "reminder_letter_v2.md", ctx.Location().Filename)
}

func TestBuild_Regenerate(t *testing.T) {
	t.Parallel()

	original := time.Date(2024, time.December, 24, 9, 0, 0, 0, time.UTC)

	t.Run("uses the original date", func(t *testing.T) {
		t.Parallel()
		p := directionParams()
		p.Mode = letter.ModeRegenerate
		p.OriginalDate = original

		ctx, err := newBuilder(t).Build(p)
		require.NoError(t, err)
		v, _ := ctx.Get("todays_date")
		require.Equal(t, "24 December 2024", v)
		v, _ = ctx.Get("todays_date_cy")
		require.Equal(t, "24 Rhagfyr 2024", v)
		require.Equal(t, time.Date(2024, time.December, 24, 0, 0, 0, 0, time.UTC), ctx.SendingDate())
	})

	t.Run("falls back to the legacy field", func(t *testing.T) {
		t.Parallel()
		p := directionParams()
		p.Mode = letter.ModeRegenerate
		p.Personalisation["original_sending_date"] = "2 February 2024"

		ctx, err := newBuilder(t).Build(p)
		require.NoError(t, err)
		v, _ := ctx.Get("todays_date")
		require.Equal(t, "2 February 2024", v)
	})

	t.Run("legacy field is ignored when sending", func(t *testing.T) {
		t.Parallel()
		p := directionParams()
		p.Personalisation["original_sending_date"] = "2 February 2024"

		ctx, err := newBuilder(t).Build(p)
		require.NoError(t, err)
		v, _ := ctx.Get("todays_date")
		require.Equal(t, "4 August 2025", v)
	})

	t.Run("requires a date", func(t *testing.T) {
		t.Parallel()
		p := directionParams()
		p.Mode = letter.ModeRegenerate
		_, err := newBuilder(t).Build(p)
		require.ErrorIs(t, err, letter.ErrMissingOriginalDate)
	})

	t.Run("rejects an unparsable legacy date", func(t *testing.T) {
		t.Parallel()
		p := directionParams()
		p.Mode = letter.ModeRegenerate
		p.Personalisation["original_sending_date"] = "yesterday"
		_, err := newBuilder(t).Build(p)
		require.ErrorIs(t, err, letter.ErrInvalidDate)
	})
}

func TestBuild_TimeZone(t *testing.T) {
	t.Parallel()

	tz := time.FixedZone("UTC+10", 10*60*60)
	ctx, err := newBuilder(t, letter.WithTimeZone(tz)).Build(directionParams())
	require.NoError(t, err)
	v, _ := ctx.Get("todays_date")
	require.Equal(t, "5 August 2025", v)
}

func TestContext_VarsIsACopy(t *testing.T) {
	t.Parallel()

	ctx, err := newBuilder(t).Build(directionParams())
	require.NoError(t, err)

	vars := ctx.Vars()
	vars["company_name"] = "changed"
	v, _ := ctx.Get("company_name")
	require.Equal(t, "TŶ'R CWMNÏAU", v)
}
