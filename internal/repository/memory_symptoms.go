package repository

import (
	"context"
	"sort"
	"sync"

	"wisefido-triage/internal/models"

	"github.com/google/uuid"
)

// symptomNamespace derives stable catalog IDs from symptom names, so IDs
// survive restarts of a memory-backed service.
var symptomNamespace = uuid.MustParse("6f1c2a8e-3b7d-4c55-9a0e-2d4b8f61c9a3")

// DefaultSymptomCatalog is the built-in catalog, also seeded by schema.sql.
var DefaultSymptomCatalog = []models.Symptom{
	// Neurological
	{Name: "Mild headache", Description: "Low-intensity headache with no associated symptoms", Category: "Neurological", BaseSeverity: models.LevelNonUrgent, Active: true},
	{Name: "Severe headache", Description: "Sudden, intense headache (\"worst headache of my life\")", Category: "Neurological", BaseSeverity: models.LevelEmergent, Active: true},
	{Name: "Dizziness", Description: "Vertigo or loss of balance", Category: "Neurological", BaseSeverity: models.LevelUrgent, Active: true},
	{Name: "Mental confusion", Description: "Disorientation or altered level of consciousness", Category: "Neurological", BaseSeverity: models.LevelVeryUrgent, Active: true},
	{Name: "Seizure", Description: "Recent or ongoing seizure", Category: "Neurological", BaseSeverity: models.LevelEmergent, Active: true},
	{Name: "Fainting", Description: "Temporary loss of consciousness", Category: "Neurological", BaseSeverity: models.LevelVeryUrgent, Active: true},

	// Respiratory
	{Name: "Dry cough", Description: "Cough without sputum", Category: "Respiratory", BaseSeverity: models.LevelLessUrgent, Active: true},
	{Name: "Coughing blood", Description: "Hemoptysis", Category: "Respiratory", BaseSeverity: models.LevelEmergent, Active: true},
	{Name: "Mild shortness of breath", Description: "Dyspnea on moderate exertion", Category: "Respiratory", BaseSeverity: models.LevelUrgent, Active: true},
	{Name: "Severe shortness of breath", Description: "Dyspnea at rest, difficulty speaking", Category: "Respiratory", BaseSeverity: models.LevelEmergent, Active: true},
	{Name: "Wheezing", Description: "Noisy, labored breathing", Category: "Respiratory", BaseSeverity: models.LevelVeryUrgent, Active: true},
	{Name: "Painful breathing", Description: "Chest pain that worsens when breathing", Category: "Respiratory", BaseSeverity: models.LevelVeryUrgent, Active: true},

	// Cardiovascular
	{Name: "Mild chest pain", Description: "Mild chest discomfort without radiation", Category: "Cardiovascular", BaseSeverity: models.LevelUrgent, Active: true},
	{Name: "Severe chest pain", Description: "Crushing chest pain radiating to arm or jaw", Category: "Cardiovascular", BaseSeverity: models.LevelEmergent, Active: true},
	{Name: "Palpitations", Description: "Irregular or racing heartbeat", Category: "Cardiovascular", BaseSeverity: models.LevelUrgent, Active: true},
	{Name: "Leg swelling", Description: "Lower limb edema", Category: "Cardiovascular", BaseSeverity: models.LevelLessUrgent, Active: true},

	// Gastrointestinal
	{Name: "Nausea", Description: "Nausea without vomiting", Category: "Gastrointestinal", BaseSeverity: models.LevelLessUrgent, Active: true},
	{Name: "Vomiting", Description: "Episodes of vomiting", Category: "Gastrointestinal", BaseSeverity: models.LevelUrgent, Active: true},
	{Name: "Vomiting blood", Description: "Hematemesis", Category: "Gastrointestinal", BaseSeverity: models.LevelEmergent, Active: true},
	{Name: "Diarrhea", Description: "Frequent liquid stools", Category: "Gastrointestinal", BaseSeverity: models.LevelLessUrgent, Active: true},
	{Name: "Bloody diarrhea", Description: "Blood in stools", Category: "Gastrointestinal", BaseSeverity: models.LevelVeryUrgent, Active: true},
	{Name: "Mild abdominal pain", Description: "Low-intensity abdominal discomfort", Category: "Gastrointestinal", BaseSeverity: models.LevelLessUrgent, Active: true},
	{Name: "Severe abdominal pain", Description: "Intense or localized abdominal pain", Category: "Gastrointestinal", BaseSeverity: models.LevelVeryUrgent, Active: true},

	// General
	{Name: "Low fever", Description: "Temperature between 37.5 and 38.5 C", Category: "General", BaseSeverity: models.LevelLessUrgent, Active: true},
	{Name: "High fever", Description: "Temperature above 39 C", Category: "General", BaseSeverity: models.LevelVeryUrgent, Active: true},
	{Name: "Weakness", Description: "Generalized fatigue or weakness", Category: "General", BaseSeverity: models.LevelLessUrgent, Active: true},
	{Name: "Malaise", Description: "General feeling of being unwell", Category: "General", BaseSeverity: models.LevelNonUrgent, Active: true},
	{Name: "Heavy sweating", Description: "Profuse sweating, possibly cold", Category: "General", BaseSeverity: models.LevelVeryUrgent, Active: true},

	// Trauma
	{Name: "Minor bleeding", Description: "Bleeding controlled with pressure", Category: "Trauma", BaseSeverity: models.LevelLessUrgent, Active: true},
	{Name: "Heavy bleeding", Description: "Uncontrolled bleeding", Category: "Trauma", BaseSeverity: models.LevelEmergent, Active: true},
	{Name: "Open fracture", Description: "Fracture with bone exposure", Category: "Trauma", BaseSeverity: models.LevelEmergent, Active: true},
	{Name: "Sprain", Description: "Joint sprain without deformity", Category: "Trauma", BaseSeverity: models.LevelLessUrgent, Active: true},
	{Name: "Minor burn", Description: "First-degree burn over a small area", Category: "Trauma", BaseSeverity: models.LevelNonUrgent, Active: true},
	{Name: "Severe burn", Description: "Second or third-degree burn over a large area", Category: "Trauma", BaseSeverity: models.LevelEmergent, Active: true},

	// Allergic
	{Name: "Itching", Description: "Localized or generalized itching", Category: "Allergic", BaseSeverity: models.LevelNonUrgent, Active: true},
	{Name: "Hives", Description: "Raised itchy welts on the skin", Category: "Allergic", BaseSeverity: models.LevelLessUrgent, Active: true},
	{Name: "Facial swelling", Description: "Swelling of lips, tongue or face", Category: "Allergic", BaseSeverity: models.LevelVeryUrgent, Active: true},
	{Name: "Difficulty swallowing", Description: "Throat tightness, possible anaphylaxis", Category: "Allergic", BaseSeverity: models.LevelEmergent, Active: true},

	// Urinary
	{Name: "Painful urination", Description: "Dysuria", Category: "Urinary", BaseSeverity: models.LevelLessUrgent, Active: true},
	{Name: "Blood in urine", Description: "Hematuria", Category: "Urinary", BaseSeverity: models.LevelUrgent, Active: true},
	{Name: "Urinary retention", Description: "Inability to urinate", Category: "Urinary", BaseSeverity: models.LevelVeryUrgent, Active: true},
}

// MemorySymptomsRepo serves the symptom catalog when DB is disabled.
type MemorySymptomsRepo struct {
	mu       sync.RWMutex
	symptoms map[string]models.Symptom // symptomID -> Symptom
}

// NewMemorySymptomsRepo seeds the repo with catalog. Entries without an ID get
// one derived from their name.
func NewMemorySymptomsRepo(catalog []models.Symptom) *MemorySymptomsRepo {
	r := &MemorySymptomsRepo{symptoms: make(map[string]models.Symptom, len(catalog))}
	for _, s := range catalog {
		if s.SymptomID == "" {
			s.SymptomID = uuid.NewSHA1(symptomNamespace, []byte(s.Name)).String()
		}
		r.symptoms[s.SymptomID] = s
	}
	return r
}

func (r *MemorySymptomsRepo) GetSymptom(_ context.Context, symptomID string) (*models.Symptom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.symptoms[symptomID]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *MemorySymptomsRepo) ListSymptoms(_ context.Context, category string) ([]models.Symptom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Symptom, 0, len(r.symptoms))
	for _, s := range r.symptoms {
		if !s.Active || (category != "" && s.Category != category) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].BaseSeverity != out[j].BaseSeverity {
			return out[i].BaseSeverity < out[j].BaseSeverity
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemorySymptomsRepo) ListCategories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, s := range r.symptoms {
		if !s.Active {
			continue
		}
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		out = append(out, s.Category)
	}
	sort.Strings(out)
	return out, nil
}
