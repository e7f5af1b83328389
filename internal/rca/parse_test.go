package rca

import "testing"

func TestParseDiagnosis_AllLabels(t *testing.T) {
	output := `Summary: migration runner crashed on a null column default
Symptom: qa_validation check exited non-zero
Symptom: stack trace points at migrations/0007_add_col.sql
Root cause: default value omitted on a NOT NULL column
Responsible layer: db_expert
Governance gap: no migration dry-run check before implementation
Corrective action: add a dry-run gate before QA_VALIDATION
Prevention: require defaults on every NOT NULL column in review
`
	d := ParseDiagnosis(output)
	if d.Summary == "" || d.RootCause == "" {
		t.Fatalf("expected summary and root cause to be parsed, got %+v", d)
	}
	if len(d.Symptoms) != 2 {
		t.Errorf("expected 2 symptoms, got %v", d.Symptoms)
	}
	if d.ResponsibleLayer != "db_expert" {
		t.Errorf("expected responsible layer db_expert, got %q", d.ResponsibleLayer)
	}
	if len(d.CorrectiveActions) != 1 {
		t.Errorf("expected 1 corrective action, got %v", d.CorrectiveActions)
	}
	if d.Prevention == "" {
		t.Error("expected prevention to be parsed")
	}
}

func TestParseDiagnosis_UnlabeledOutputLeavesFieldsEmpty(t *testing.T) {
	d := ParseDiagnosis("the pipeline broke somewhere, not sure why")
	if d.Summary != "" || d.RootCause != "" || len(d.Symptoms) != 0 {
		t.Errorf("expected empty diagnosis for unlabeled output, got %+v", d)
	}
}
