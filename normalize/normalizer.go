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


package normalize

import (
	"fmt"

	"github.com/poiesic/policysync/core"
)

// Normalize coerces one renamed row (canonical field name to raw string
// value) into a PolicyRecord, or returns a per-record error. It never
// panics past this boundary: every failure mode is an error value for the
// caller to ledger.
//
// Rules:
//   - the policy number is cleaned; an empty result is a failure
//   - the composite period string expands to start/end dates; a malformed
//     or missing period yields absent dates, not a failure
//   - numeric fields use lenient parsing; unparseable values become 0.0
//   - a blank insured name defaults to "Unknown"
func Normalize(row map[string]string) (*core.PolicyRecord, error) {
	key := CleanPolicyNumber(row[core.FieldPolicyNumber])
	if key == "" {
		return nil, fmt.Errorf("%w: raw value %q", core.ErrEmptyPolicyNumber, row[core.FieldPolicyNumber])
	}

	record := &core.PolicyRecord{
		PolicyNumber: key,
		InsuredName:  core.DefaultInsuredName,

		SumInsured: LenientFloat(row[core.FieldSumInsured]),
		Premium:    LenientFloat(row[core.FieldPremium]),

		OwnRetentionPPN:        LenientFloat(row[core.FieldOwnRetentionPPN]),
		OwnRetentionSumInsured: LenientFloat(row[core.FieldOwnRetentionSumInsured]),
		OwnRetentionPremium:    LenientFloat(row[core.FieldOwnRetentionPremium]),

		TreatyRetentionPPN: LenientFloat(row[core.FieldTreatyRetentionPPN]),
		TreatySumInsured:   LenientFloat(row[core.FieldTreatySumInsured]),
		TreatyPremium:      LenientFloat(row[core.FieldTreatyPremium]),

		FacultativeOutwardPPN:        LenientFloat(row[core.FieldFacultativeOutwardPPN]),
		FacultativeOutwardSumInsured: LenientFloat(row[core.FieldFacultativeOutwardSumInsured]),
		FacultativeOutwardPremium:    LenientFloat(row[core.FieldFacultativeOutwardPremium]),
	}

	if name := cleanText(row[core.FieldInsuredName]); name != "" {
		record.InsuredName = name
	}

	record.PeriodStart, record.PeriodEnd = SplitPeriod(row[core.FieldInsurancePeriod])

	if err := core.ValidatePolicyRecord(record); err != nil {
		return nil, err
	}

	return record, nil
}
