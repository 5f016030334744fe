// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidatePolicyRecord validates a PolicyRecord according to domain rules.
//
// Validation rules:
//   - PolicyNumber must not be empty
//   - PeriodStart must not be after PeriodEnd when both are present
//
// NOT validated (populated by later pipeline stages):
//   - VectorID (nil until embedding sync succeeds)
//   - Numeric fields (zero is a legitimate value, not an absence)
func ValidatePolicyRecord(record *PolicyRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidPolicyRecord)
	}

	if record.PolicyNumber == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPolicyRecord, ErrEmptyPolicyNumber)
	}

	if record.PeriodStart != nil && record.PeriodEnd != nil &&
		record.PeriodStart.After(*record.PeriodEnd) {
		return fmt.Errorf("%w: %w", ErrInvalidPolicyRecord, ErrPeriodOrder)
	}

	return nil
}
