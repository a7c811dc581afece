package dictionary

import (
	"testing"

	"github.com/amishk599/offermatch/internal/model"
)

func fixtureRules() map[string]model.ContextRule {
	return map[string]model.ContextRule{
		"C++": {
			Positive: []string{"Développeur", "programmation", ".NET", "logiciel"},
			Negative: []string{"business intelligence", "infrastructure", "réseau", "support", "bureautique", "hotline"},
		},
	}
}

func TestDisambiguator_IsValidInContext(t *testing.T) {
	s := NewDisambiguator(fixtureRules())

	tests := []struct {
		name    string
		keyword string
		text    string
		want    bool
	}{
		{"positive only", "c++", "Développeur expérimenté en C++ pour applications desktop", true},
		{"no indicator at all", "c++", "consultant business analyst pilotage performance", false},
		{"negative only", "c++", "Consultant Business Intelligence, tableaux de bord", false},
		{"tie accepts", "c++", "programmation c++ bas niveau pour équipements réseau", true},
		{"more negative than positive", "c++", "logiciel de hotline, support niveau 2, infrastructure", false},
		{"duplicate indicator counted once", "c++", "programmation programmation, support et hotline", false},
		{"accent insensitive indicator", "c++", "DEVELOPPEUR C++", true},
		{"empty text rejected", "c++", "", false},
		{"blank text rejected", "c++", "   \n\t ", false},
		{"keyword without rule accepted", "react", "poste front", true},
		{"keyword without rule needs text", "react", "", false},
		{"keyword case insensitive", "C++", "logiciel embarqué", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.IsValidInContext(tt.keyword, tt.text); got != tt.want {
				t.Errorf("IsValidInContext(%q, %q) = %v, want %v", tt.keyword, tt.text, got, tt.want)
			}
		})
	}
}

func TestDisambiguator_Explain(t *testing.T) {
	s := NewDisambiguator(fixtureRules())

	ev := s.Explain("c++", "Programmation C++ pour la supervision réseau et le support")
	if !ev.Ruled {
		t.Fatal("expected c++ to be ruled")
	}
	if len(ev.Positive) != 1 || ev.Positive[0] != "programmation" {
		t.Errorf("Positive = %v, want [programmation]", ev.Positive)
	}
	if len(ev.Negative) != 2 {
		t.Errorf("Negative = %v, want 2 indicators", ev.Negative)
	}
	if ev.Accepted {
		t.Error("expected rejection when negative evidence outweighs positive")
	}
}

func TestDefaultDictionary_ProgrammingLanguageInContext(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	tests := []struct {
		name    string
		keyword string
		text    string
		want    bool
	}{
		{"c++ desktop developer", "c++", "développeur expérimenté en c++ pour applications desktop", true},
		{"c++ in BI offer", "c++", "consultant business intelligence pilotage performance tableaux de bord", false},
		{"c# music", "c#", "professeur de piano, gamme en do dièse (c#) et solfège", false},
		{"c# dotnet", "c#", "Développeur .NET / C# confirmé", true},
		{"go live is not golang", "go", "chef de projet, préparation du go live et pilotage", false},
		{"go backend", "go", "développeur backend go, microservices", true},
		{"swift banking", "swift", "gestion des virements SWIFT et de la trésorerie", false},
		{"swift ios", "swift", "Développeur iOS Swift / SwiftUI", true},
		{"ssis etl", "ssis", "Consultant décisionnel, flux ETL sous SSIS", true},
		{"r statistics", "r", "Data scientist, modélisation statistique sous R", true},
		{"r&d is not r", "r", "ingénieur R&D mécanique", false},
		{"bare node without context", "node", "Projet node", false},
		{"node network", "node", "supervision de chaque noeud réseau, node de cluster", false},
		{"node backend", "node", "Développeur backend Node et TypeScript", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsValidProgrammingLanguageInContext(tt.keyword, tt.text); got != tt.want {
				t.Errorf("IsValidProgrammingLanguageInContext(%q, %q) = %v, want %v", tt.keyword, tt.text, got, tt.want)
			}
		})
	}
}

func TestDictionary_DisambiguatorIsShared(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if d.Disambiguator() == nil || d.Disambiguator() != d.Disambiguator() {
		t.Error("expected one disambiguator built at load")
	}
}
