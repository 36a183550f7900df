package service_test

import (
	"context"
	"testing"
	"time"

	"distance-tracker/internal/config"
	"distance-tracker/internal/domain"
	"distance-tracker/internal/service"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func newAuthFixture() (*fakePersonStore, *service.AuthService) {
	people := newFakePersonStore()
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	return people, service.NewAuthService(people, cfg, zerolog.Nop())
}

func TestAuth(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh identity store", t, func() {
		people, auth := newAuthFixture()

		Convey("When a person registers", func() {
			person, err := auth.Register(ctx, "  Kasia ", "s3cret")

			Convey("Then the username maps to a synthetic email", func() {
				So(err, ShouldBeNil)
				So(person.Email, ShouldEqual, "kasia@fake.mail")
				So(person.Name, ShouldEqual, "Kasia")
				So(person.Team, ShouldBeNil)
			})

			Convey("And login with the right password yields a usable token", func() {
				logged, token, lerr := auth.Login(ctx, "Kasia", "s3cret")
				So(lerr, ShouldBeNil)
				So(logged.ID, ShouldEqual, person.ID)
				So(token, ShouldNotBeEmpty)

				verified, verr := auth.VerifyToken(ctx, token)
				So(verr, ShouldBeNil)
				So(verified.ID, ShouldEqual, person.ID)
			})

			Convey("And login with the wrong password fails", func() {
				_, _, lerr := auth.Login(ctx, "Kasia", "wrong")
				So(lerr, ShouldWrap, domain.ErrInvalidInput)
			})

			Convey("And registering the same username again fails", func() {
				_, rerr := auth.Register(ctx, "kasia", "other")
				So(rerr, ShouldWrap, domain.ErrInvalidInput)
			})
		})

		Convey("When registering with empty credentials", func() {
			_, err := auth.Register(ctx, "", "")

			Convey("Then invalid input is reported", func() {
				So(err, ShouldWrap, domain.ErrInvalidInput)
				So(people.people, ShouldBeEmpty)
			})
		})

		Convey("When logging in as an unknown user", func() {
			_, _, err := auth.Login(ctx, "ghost", "pw")

			Convey("Then not found is reported", func() {
				So(err, ShouldWrap, domain.ErrNotFound)
			})
		})

		Convey("When verifying a garbage token", func() {
			_, err := auth.VerifyToken(ctx, "not.a.jwt")

			Convey("Then not found is reported", func() {
				So(err, ShouldWrap, domain.ErrNotFound)
			})
		})
	})
}

func TestTeamService(t *testing.T) {
	ctx := context.Background()

	Convey("Given an assigned person", t, func() {
		people := newFakePersonStore()
		blue := domain.TeamBlue
		addPerson(people, "p1", "Ala", &blue)
		teams := service.NewTeamService(people, zerolog.Nop())

		Convey("When selecting none", func() {
			So(teams.SetTeam(ctx, "p1", "none"), ShouldBeNil)

			Convey("Then the assignment is an explicit null", func() {
				So(people.people["p1"].Team, ShouldBeNil)
			})
		})

		Convey("When selecting team B", func() {
			So(teams.SetTeam(ctx, "p1", "B"), ShouldBeNil)

			Convey("Then the red team is assigned", func() {
				So(*people.people["p1"].Team, ShouldEqual, domain.TeamRed)
			})
		})

		Convey("When the selector is unknown", func() {
			Convey("Then invalid input is reported", func() {
				So(teams.SetTeam(ctx, "p1", "purple"), ShouldWrap, domain.ErrInvalidInput)
			})
		})

		Convey("When renaming", func() {
			So(teams.Rename(ctx, "p1", "Alicja"), ShouldBeNil)

			Convey("Then the display name changes", func() {
				So(people.people["p1"].Name, ShouldEqual, "Alicja")
			})

			Convey("And an empty name is rejected", func() {
				So(teams.Rename(ctx, "p1", ""), ShouldWrap, domain.ErrInvalidInput)
			})
		})
	})
}

func TestRandomize(t *testing.T) {
	ctx := context.Background()

	Convey("Given five people, some already assigned", t, func() {
		people := newFakePersonStore()
		blue := domain.TeamBlue
		addPerson(people, "p1", "Ala", &blue)
		addPerson(people, "p2", "Ola", nil)
		addPerson(people, "p3", "Ewa", nil)
		addPerson(people, "p4", "Jan", nil)
		addPerson(people, "p5", "Iza", nil)
		teams := service.NewTeamService(people, zerolog.Nop())

		Convey("When four of them are drawn", func() {
			selected := []string{"p2", "p3", "p4", "p5"}
			draw, err := teams.Randomize(ctx, selected)

			Convey("Then the halves are even, disjoint and cover the selection", func() {
				So(err, ShouldBeNil)
				So(draw.Blue, ShouldHaveLength, 2)
				So(draw.Red, ShouldHaveLength, 2)

				drawn := make(map[string]bool)
				for _, p := range draw.Blue {
					So(*p.Team, ShouldEqual, domain.TeamBlue)
					drawn[p.ID] = true
				}
				for _, p := range draw.Red {
					So(*p.Team, ShouldEqual, domain.TeamRed)
					So(drawn[p.ID], ShouldBeFalse)
					drawn[p.ID] = true
				}
				for _, id := range selected {
					So(drawn[id], ShouldBeTrue)
				}
			})

			Convey("And everyone outside the draw is unassigned", func() {
				So(people.people["p1"].Team, ShouldBeNil)
			})

			Convey("And the stored assignments match the draw", func() {
				for _, p := range draw.Blue {
					So(*people.people[p.ID].Team, ShouldEqual, domain.TeamBlue)
				}
				for _, p := range draw.Red {
					So(*people.people[p.ID].Team, ShouldEqual, domain.TeamRed)
				}
			})
		})

		Convey("When an odd number is drawn", func() {
			draw, err := teams.Randomize(ctx, []string{"p1", "p2", "p3"})

			Convey("Then the blue half gets the extra person", func() {
				So(err, ShouldBeNil)
				So(draw.Blue, ShouldHaveLength, 2)
				So(draw.Red, ShouldHaveLength, 1)
			})
		})

		Convey("When fewer than two are selected", func() {
			_, err := teams.Randomize(ctx, []string{"p1"})

			Convey("Then invalid input is reported and nothing changes", func() {
				So(err, ShouldWrap, domain.ErrInvalidInput)
				So(*people.people["p1"].Team, ShouldEqual, domain.TeamBlue)
			})
		})

		Convey("When the selection repeats an id", func() {
			_, err := teams.Randomize(ctx, []string{"p1", "p1"})

			Convey("Then invalid input is reported", func() {
				So(err, ShouldWrap, domain.ErrInvalidInput)
			})
		})

		Convey("When the selection names an unknown person", func() {
			_, err := teams.Randomize(ctx, []string{"p1", "ghost"})

			Convey("Then not found is reported and nothing changes", func() {
				So(err, ShouldWrap, domain.ErrNotFound)
				So(*people.people["p1"].Team, ShouldEqual, domain.TeamBlue)
			})
		})
	})
}

func TestAdminPolicy(t *testing.T) {
	ctx := context.Background()

	Convey("Given a configured allowlist", t, func() {
		people := newFakePersonStore()
		cfg := &config.Config{AdminIDs: []string{"root-1"}}
		policy := service.NewAdminPolicy(cfg, people)

		Convey("Then only listed ids are admins", func() {
			ok, err := policy.IsAdmin(ctx, "root-1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = policy.IsAdmin(ctx, "someone")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given no allowlist", t, func() {
		people := newFakePersonStore()
		addPerson(people, "p1", "Ala", nil)
		people.people["p1"].IsAdmin = true
		policy := service.NewAdminPolicy(&config.Config{}, people)

		Convey("Then the store flag decides", func() {
			ok, err := policy.IsAdmin(ctx, "p1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = policy.IsAdmin(ctx, "p2")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}
