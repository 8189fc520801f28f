package queue

import "testing"

func TestGetPartitionForDepartment_StableAndInRange(t *testing.T) {
	departments := []string{
		"Emergency", "Surgery", "ICU", "Pediatrics", "Oncology",
		"Radiology", "Laboratory", "Pharmacy", "General Ward", "Outpatient",
	}
	numPartitions := 4

	for _, dept := range departments {
		first := GetPartitionForDepartment(dept, numPartitions)
		if first < 0 || first >= numPartitions {
			t.Errorf("Partition for %s out of range: %d", dept, first)
		}
		// Same department must always land on the same partition so its
		// alerts stay ordered.
		for i := 0; i < 10; i++ {
			if got := GetPartitionForDepartment(dept, numPartitions); got != first {
				t.Fatalf("Partition for %s not stable: %d then %d", dept, first, got)
			}
		}
	}
}

func TestGetPartitionForDepartment_SpreadsDepartments(t *testing.T) {
	departments := []string{
		"Emergency", "Surgery", "ICU", "Pediatrics", "Oncology",
		"Radiology", "Laboratory", "Pharmacy", "General Ward", "Outpatient",
	}

	seen := make(map[int]bool)
	for _, dept := range departments {
		seen[GetPartitionForDepartment(dept, 4)] = true
	}

	if len(seen) < 2 {
		t.Errorf("Expected departments spread over multiple partitions, all mapped to %v", seen)
	}
}
