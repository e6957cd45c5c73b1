package main

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmconnect/pkg/models"
)

// seedContent loads a starter set of schemes and tips into an empty
// database so fresh deployments answer with real content.
func seedContent(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Scheme{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	schemes := []models.Scheme{
		{
			SchemeUid: uuid.NewString(),
			Name: models.LocalizedText{
				En: "PM-KISAN Samman Nidhi",
				Hi: "पीएम-किसान सम्मान निधि",
				Gu: "પીએમ-કિસાન સન્માન નિધિ",
			},
			Description: models.LocalizedText{
				En: "Income support of Rs. 6000 per year in three equal installments to all landholding farmer families.",
				Hi: "सभी भूमिधारक किसान परिवारों को प्रति वर्ष 6000 रुपये की आय सहायता, तीन समान किस्तों में।",
				Gu: "તમામ જમીનધારક ખેડૂત પરિવારોને વર્ષે રૂ. 6000ની આવક સહાય, ત્રણ સમાન હપ્તામાં.",
			},
			Eligibility: models.LocalizedText{
				En: "All landholding farmer families with cultivable land.",
			},
			Benefits: models.LocalizedText{
				En: "Rs. 2000 every four months, paid directly to the bank account.",
			},
			ApplicationURL: "https://pmkisan.gov.in",
			Category:       "income-support",
			IsActive:       true,
			Priority:       10,
		},
		{
			SchemeUid: uuid.NewString(),
			Name: models.LocalizedText{
				En: "Pradhan Mantri Fasal Bima Yojana",
				Hi: "प्रधानमंत्री फसल बीमा योजना",
				Gu: "પ્રધાનમંત્રી ફસલ વીમા યોજના",
			},
			Description: models.LocalizedText{
				En: "Crop insurance against natural calamities, pests and diseases at subsidised premium rates.",
			},
			Eligibility: models.LocalizedText{
				En: "All farmers growing notified crops in notified areas, including sharecroppers and tenant farmers.",
			},
			Benefits: models.LocalizedText{
				En: "Premium capped at 2% for kharif, 1.5% for rabi and 5% for commercial crops.",
			},
			ApplicationURL: "https://pmfby.gov.in",
			Category:       "insurance",
			IsActive:       true,
			Priority:       8,
		},
	}
	for i := range schemes {
		if err := db.Create(&schemes[i]).Error; err != nil {
			log.Printf("Seeding scheme failed: %v", err)
		}
	}

	tips := []models.Tip{
		{
			TipUid: uuid.NewString(),
			Title: models.LocalizedText{
				En: "Test your soil before sowing",
				Hi: "बुवाई से पहले मिट्टी की जांच कराएं",
				Gu: "વાવણી પહેલાં જમીનનું પરીક્ષણ કરાવો",
			},
			Description: models.LocalizedText{
				En: "A soil test tells you exactly which nutrients your field needs.",
			},
			Content: models.LocalizedText{
				En: "Collect samples from 8-10 spots at 15cm depth, mix them and submit to your nearest soil testing lab. Apply fertilizer as per the soil health card recommendation.",
			},
			Category: "soil",
			Icon:     "🧪",
			Season:   "all",
			IsActive: true,
			Priority: 5,
		},
		{
			TipUid: uuid.NewString(),
			Title: models.LocalizedText{
				En: "Irrigate in the early morning",
				Hi: "सुबह जल्दी सिंचाई करें",
				Gu: "વહેલી સવારે પિયત આપો",
			},
			Description: models.LocalizedText{
				En: "Morning irrigation cuts evaporation losses sharply.",
			},
			Content: models.LocalizedText{
				En: "Water between 5am and 9am so the soil absorbs moisture before the heat of the day. Drip systems save up to 60% water compared to flood irrigation.",
			},
			Category: "irrigation",
			Icon:     "💧",
			Season:   "summer",
			IsActive: true,
			Priority: 4,
		},
	}
	for i := range tips {
		if err := db.Create(&tips[i]).Error; err != nil {
			log.Printf("Seeding tip failed: %v", err)
		}
	}

	log.Println("Seeded starter schemes and tips")
}
