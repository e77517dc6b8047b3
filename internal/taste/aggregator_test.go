package taste

import "testing"

func TestComputeProfileGenreTally(t *testing.T) {
	liked := []TaggedMovie{
		{Genres: []string{"Horror"}},
		{Genres: []string{"Horror"}},
	}
	watched := []TaggedMovie{
		{Genres: []string{"Comedy"}},
	}

	profile := ComputeProfile(liked, watched)

	if len(profile.TopGenres) != 2 {
		t.Fatalf("Expected 2 genres, got %d", len(profile.TopGenres))
	}
	if profile.TopGenres[0].Genre != "Horror" || profile.TopGenres[0].Count != 2 {
		t.Errorf("Expected Horror x2 on top, got %+v", profile.TopGenres[0])
	}
	if profile.TopGenres[1].Genre != "Comedy" || profile.TopGenres[1].Count != 1 {
		t.Errorf("Expected Comedy x1 second, got %+v", profile.TopGenres[1])
	}
}

func TestComputeProfileDirectorsLikedOnly(t *testing.T) {
	liked := []TaggedMovie{
		{Director: "Greta Gerwig", Genres: []string{"Drama"}},
		{Director: "Greta Gerwig", Genres: []string{"Comedy"}},
		{Director: "Bong Joon-ho", Genres: []string{"Thriller"}},
	}
	watched := []TaggedMovie{
		{Director: "Uwe Boll", Genres: []string{"Action"}},
	}

	profile := ComputeProfile(liked, watched)

	if len(profile.TopDirectors) != 2 {
		t.Fatalf("Expected 2 directors, got %d", len(profile.TopDirectors))
	}
	if profile.TopDirectors[0].Director != "Greta Gerwig" || profile.TopDirectors[0].Count != 2 {
		t.Errorf("Unexpected top director: %+v", profile.TopDirectors[0])
	}
	for _, d := range profile.TopDirectors {
		if d.Director == "Uwe Boll" {
			t.Error("Watched-only directors must not be counted")
		}
	}
}

func TestComputeProfileTruncation(t *testing.T) {
	liked := []TaggedMovie{}
	for _, g := range []string{"Action", "Drama", "Comedy", "Horror", "Thriller", "Romance"} {
		liked = append(liked, TaggedMovie{Genres: []string{g}, Director: "Dir " + g})
	}

	profile := ComputeProfile(liked, nil)

	if len(profile.TopGenres) != 4 {
		t.Errorf("Expected genres truncated to 4, got %d", len(profile.TopGenres))
	}
	if len(profile.TopDirectors) != 3 {
		t.Errorf("Expected directors truncated to 3, got %d", len(profile.TopDirectors))
	}
}

func TestComputeProfileTiesKeepEncounterOrder(t *testing.T) {
	liked := []TaggedMovie{
		{Genres: []string{"Western", "Mystery"}},
		{Genres: []string{"Western", "Mystery"}},
	}

	profile := ComputeProfile(liked, nil)

	if profile.TopGenres[0].Genre != "Western" || profile.TopGenres[1].Genre != "Mystery" {
		t.Errorf("Tie order not stable: %+v", profile.TopGenres)
	}
}

func TestComputeProfilePersona(t *testing.T) {
	profile := ComputeProfile([]TaggedMovie{{Genres: []string{"Horror"}}}, nil)
	if profile.Persona != "Horror Hound" {
		t.Errorf("Expected Horror Hound, got %s", profile.Persona)
	}

	// Unknown top genre falls back to the default.
	profile = ComputeProfile([]TaggedMovie{{Genres: []string{"Telenovela"}}}, nil)
	if profile.Persona != defaultPersona {
		t.Errorf("Expected default persona, got %s", profile.Persona)
	}
}

func TestComputeProfileProlificFallback(t *testing.T) {
	// Heavy watcher with no genre data anywhere.
	watched := make([]TaggedMovie, 101)

	profile := ComputeProfile(nil, watched)
	if profile.Persona != prolificPersona {
		t.Errorf("Expected %s, got %s", prolificPersona, profile.Persona)
	}

	// At the threshold the generic default still applies.
	profile = ComputeProfile(nil, watched[:100])
	if profile.Persona != defaultPersona {
		t.Errorf("Expected default persona at threshold, got %s", profile.Persona)
	}
}

func TestComputeProfileEmptyInputs(t *testing.T) {
	profile := ComputeProfile(nil, nil)

	if len(profile.TopGenres) != 0 || len(profile.TopDirectors) != 0 {
		t.Errorf("Expected empty tallies, got %+v", profile)
	}
	if profile.Persona != defaultPersona {
		t.Errorf("Expected default persona, got %s", profile.Persona)
	}
}
