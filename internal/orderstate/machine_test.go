package orderstate

import (
	"testing"

	"github.com/opticore/lenscard-backend/pkg/enums"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name     string
		p        enums.Provenance
		explicit bool
		loading  bool
		want     Decision
	}{
		{"initial implicit", enums.ProvenanceInitial, false, false, DecisionPerformed},
		{"user input implicit", enums.ProvenanceUserInput, false, false, DecisionPerformed},
		{"database implicit blocked", enums.ProvenanceDatabaseValues, false, false, DecisionBlockedProvenance},
		{"database explicit allowed", enums.ProvenanceDatabaseValues, true, false, DecisionPerformed},
		{"loading blocks explicit", enums.ProvenanceUserInput, true, true, DecisionBlockedLoading},
		{"loading blocks database", enums.ProvenanceDatabaseValues, false, true, DecisionBlockedLoading},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.p, tc.explicit, tc.loading); got != tc.want {
				t.Fatalf("Decide(%s, %v, %v) = %s, want %s", tc.p, tc.explicit, tc.loading, got, tc.want)
			}
		})
	}
}
