package assistant

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

const fallbackAssistantContent = "I'm sorry, I couldn't process your request. Please try again."

const fallbackItineraryContent = "I couldn't generate a response. Please try again."

const systemPrompt = `You are a friendly and knowledgeable AI tourism assistant for Pune, India - the cultural capital of Maharashtra. You help tourists discover the best of Pune, including:

- Historical sites (Shaniwar Wada, Aga Khan Palace, Sinhagad Fort)
- Temples (Dagdusheth Halwai Ganpati)
- Museums and cultural spots
- Local food and restaurants
- Shopping areas (FC Road, MG Road)
- Nightlife and entertainment (Koregaon Park)
- Transportation (Pune Metro, buses, auto-rickshaws)
- Day trips and nearby attractions

Guidelines:
- Be warm, helpful, and enthusiastic about Pune
- Provide practical tips like best times to visit, entry fees, and nearby eateries
- Suggest local experiences and hidden gems
- If asked in Spanish, respond in Spanish
- Keep responses concise but informative
- Include safety tips when relevant
- Recommend Pune Metro for getting around when applicable

Current popular attractions in Pune:
1. Shaniwar Wada - Historic Peshwa palace, entry ₹25
2. Aga Khan Palace - Gandhi memorial, entry ₹50
3. Sinhagad Fort - Hill fort with panoramic views
4. Dagdusheth Halwai Ganpati - Famous temple
5. Pataleshwar Cave Temple - 8th century rock-cut cave
6. Raja Dinkar Kelkar Museum - Indian artifacts
7. Okayama Friendship Garden - Japanese garden
8. Vetal Tekdi - Hiking spot

Metro Information:
- Purple Line: PCMC to Swargate (operational)
- Aqua Line: Vanaz to Ramwadi (operational)
- Fare: ₹10-40 based on distance`

// chatMessages prepends the system prompt to a conversation history.
func chatMessages(history []models.ChatTurnMessage) []models.ChatTurnMessage {
	out := make([]models.ChatTurnMessage, 0, len(history)+1)
	out = append(out, models.ChatTurnMessage{Role: "system", Content: systemPrompt})
	return append(out, history...)
}

// itineraryMessages builds the one-shot prompt for itinerary generation.
func itineraryMessages(prefs models.ItineraryPreferences) []models.ChatTurnMessage {
	prompt := fmt.Sprintf(`Create a detailed %d-day itinerary for visiting Pune, India.

User preferences:
- Interests: %s
- Budget: %s
- Duration: %d days

Create a well-structured itinerary with:
1. Day-by-day breakdown
2. Morning, afternoon, and evening activities
3. Specific attractions with approximate visit times
4. Restaurant/food recommendations
5. Transportation tips between locations
6. Estimated costs where applicable

Format the response clearly with headers for each day.`,
		prefs.Duration, strings.Join(prefs.Interests, ", "), prefs.Budget, prefs.Duration)

	return []models.ChatTurnMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}
}
