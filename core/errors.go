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

import "errors"

// Domain validation errors
var (
	// ErrInvalidPolicyRecord indicates a PolicyRecord failed validation.
	ErrInvalidPolicyRecord = errors.New("invalid policy record")

	// ErrEmptyPolicyNumber indicates the policy number is empty after cleaning.
	ErrEmptyPolicyNumber = errors.New("policy number cannot be empty")

	// ErrPeriodOrder indicates period_start is after period_end.
	ErrPeriodOrder = errors.New("insurance period start is after period end")
)
